package store

import (
	"context"

	"github.com/amishk599/skillmap/internal/model"
)

// NopStore is used when snapshotting is disabled. It discards every run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) SaveRun(ctx context.Context, run model.RunSummary) error { return nil }
func (s *NopStore) Close() error                                             { return nil }
