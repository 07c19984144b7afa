package dto

import (
	"github.com/tecbunny/backend/internal/domain/integration"
)

// FullSyncRequest triggers a multi-module sync run
type FullSyncRequest struct {
	Direction string   `json:"direction" binding:"omitempty,syncdirection"`
	Modules   []string `json:"modules" binding:"omitempty,dive,oneof=customers products orders crm inventory"`
	BatchSize int      `json:"batch_size" binding:"omitempty,min=1,max=200"`
	DryRun    bool     `json:"dry_run"`
}

// EntitySyncRequest triggers a single-module sync run
type EntitySyncRequest struct {
	Direction string   `json:"direction" binding:"omitempty,syncdirection"`
	IDs       []string `json:"ids" binding:"omitempty,dive,uuid"`
	BatchSize int      `json:"batch_size" binding:"omitempty,min=1,max=200"`
	DryRun    bool     `json:"dry_run"`
}

// SyncSummary aggregates counts across modules for a full sync run
type SyncSummary struct {
	TotalSynced int      `json:"total_synced"`
	TotalFailed int      `json:"total_failed"`
	Direction   string   `json:"direction"`
	Modules     []string `json:"modules"`
}

// FullSyncResponse carries per-module results plus the aggregate summary
type FullSyncResponse struct {
	Summary SyncSummary                        `json:"summary"`
	Results map[string]*integration.SyncResult `json:"results"`
}

// SyncStatusResponse reports integration readiness
type SyncStatusResponse struct {
	StoreConfigured       bool `json:"store_configured"`
	IntegrationConfigured bool `json:"integration_configured"`
}
