// Package lunchtray is the order-state core of a lunch-tray point-of-sale UI.
//
// The repository is laid out as a handful of small packages:
//
//   - order: the in-progress order, its course slots, totals and observers
//   - menu: the read-only catalog of items, from YAML or the built-in menu
//   - money: decimal tax/total helpers and locale-aware currency strings
//   - config: LUNCHTRAY_* environment settings (optionally from .env)
//   - cmd/lunchtray: a CLI host that builds and prints one order
//   - examples/observer: a runnable example of binding observers to an order
//
// Wiring stays explicit: the host loads a catalog, creates one order.State
// per order, and subscribes to the values it renders.
package lunchtray
