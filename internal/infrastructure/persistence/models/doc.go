// Package models contains the GORM persistence models for the analytics
// store. Models mirror the domain entities in internal/domain/sales with
// storage concerns added: a synthetic row id, text dates in ISO form and
// the unique index on the order line natural key.
package models
