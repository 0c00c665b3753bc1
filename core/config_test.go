package core

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
)

func TestEconomyConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*EconomyConfig)
		wantErr string
	}{
		{name: "defaults"},
		{name: "named zone", modify: func(ec *EconomyConfig) { ec.Timezone = "Asia/Tokyo" }},
		{name: "misspelled zone", modify: func(ec *EconomyConfig) { ec.Timezone = "Asia/Tokio" }, wantErr: `timezone "Asia/Tokio"`},
		{name: "empty sample", modify: func(ec *EconomyConfig) { ec.PoolSampleSize = 0 }, wantErr: "poolSampleSize must be positive (got 0)"},
		{name: "empty wheel", modify: func(ec *EconomyConfig) { ec.WheelSize = -1 }, wantErr: "wheelSize must be positive (got -1)"},
		{name: "free spins", modify: func(ec *EconomyConfig) { ec.SpinCost = 0 }, wantErr: "spinCost must be positive (got 0)"},
		{name: "free refresh", modify: func(ec *EconomyConfig) { ec.RefreshCost = 0 }, wantErr: "refreshCost must be positive (got 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := DefaultEconomy()
			if tt.modify != nil {
				tt.modify(&ec)
			}
			err := ec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEconomyConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, DefaultEconomy().Location())

	ec := EconomyConfig{Timezone: "Asia/Tokyo"}
	assert.Equal(t, "Asia/Tokyo", ec.Location().String())
}
