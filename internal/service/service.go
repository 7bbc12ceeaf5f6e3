// Package service implements the interview session lifecycle and the
// streaming answer dispatcher.
package service

import (
	"github.com/keji-green/lit-engine/config"
	"github.com/keji-green/lit-engine/internal/adapter/answerer"
	"github.com/keji-green/lit-engine/internal/repository"
	"github.com/keji-green/lit-engine/policy"
)

type Service struct {
	store    store.Store
	answerer answerer.Generator
	guard    *policy.Engine
	config   *config.Config
}

func New(store store.Store, gen answerer.Generator, guard *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		answerer: gen,
		guard:    guard,
		config:   cfg,
	}
}
