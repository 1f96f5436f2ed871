// Package service contains the orchestrator tying request routing,
// provider invocation and session persistence together.
package service

import (
	"github.com/medassist/orchestrator/internal/adapter/provider"
	"github.com/medassist/orchestrator/internal/config"
	store "github.com/medassist/orchestrator/internal/repository"
	"github.com/medassist/orchestrator/policy"
)

type Service struct {
	store        store.Store
	providers    provider.Registry
	policyEngine *policy.Engine
	config       *config.Config
}

func New(st store.Store, providers provider.Registry, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        st,
		providers:    providers,
		policyEngine: policyEngine,
		config:       cfg,
	}
}
