// Package integration contains the core domain model for marketplace
// synchronization: remote key mappings, sync watermarks, asynchronous job
// lifecycle, remote record shapes and the ports implemented by the
// marketplace adapter and the merchant catalog.
//
// This package follows the Ports & Adapters pattern - interfaces are defined
// here, and concrete implementations (Amazon adapter, GORM stores) live in
// the infrastructure layer.
package integration
