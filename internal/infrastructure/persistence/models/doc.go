// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - merchant.go: Merchant catalog models (Product, Order, OrderLine, Currency, Country)
// - sync.go: Synchronization engine state (RemoteKeyMapping, SyncWatermark, SyncImportLog)
package models
