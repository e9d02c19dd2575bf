// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// # Reconciliation

// RelationReport summarizes the recount of one relation.
type RelationReport struct {
	Relation string `json:"relation"`
	Scanned  int64  `json:"scanned"`
	Repaired int64  `json:"repaired"`
}

// Report summarizes a full reconciliation run.
type Report struct {
	Relations     []RelationReport `json:"relations"`
	TreeRepaired  int64            `json:"treeRepaired"`
	DurationMilli int64            `json:"durationMs"`
}

// Repaired returns the total number of documents corrected.
func (report Report) Repaired() int64 {
	total := report.TreeRepaired
	for _, relation := range report.Relations {
		total += relation.Repaired
	}
	return total
}

// Reconciler recomputes every counter from ground truth.
type Reconciler struct {
	store  Store
	tree   TreeRebuilder
	logger *slog.Logger
}

// NewReconciler constructs a [Reconciler]. tree may be nil.
func NewReconciler(store Store, tree TreeRebuilder, logger *slog.Logger) *Reconciler {
	return &Reconciler{store: store, tree: tree, logger: logger}
}

/*
Run recounts every relation and rewrites drifted counters, then rebuilds
derived tree edges.

Description: Safe to run while the API serves traffic; a concurrent
mutation between the count and the rewrite is corrected by the next run.
*/
func (reconciler *Reconciler) Run(context context.Context) (Report, error) {
	startedAt := time.Now()
	report := Report{Relations: make([]RelationReport, 0, len(Relations))}

	for _, relation := range Relations {
		counts, err := reconciler.store.CountChildren(context, relation)
		if err != nil {
			return report, fmt.Errorf("integrity: count %s: %w", relation.Name, err)
		}

		scanned, repaired, err := reconciler.store.SyncCounter(context, relation, counts)
		if err != nil {
			return report, fmt.Errorf("integrity: sync %s: %w", relation.Name, err)
		}

		report.Relations = append(report.Relations, RelationReport{
			Relation: relation.Name,
			Scanned:  scanned,
			Repaired: repaired,
		})

		if repaired > 0 {
			reconciler.logger.Warn("counter_drift_repaired",
				slog.String("relation", relation.Name),
				slog.Int64("repaired", repaired),
			)
		}
	}

	if reconciler.tree != nil {
		repaired, err := reconciler.tree.RebuildTree(context)
		if err != nil {
			return report, fmt.Errorf("integrity: rebuild tree: %w", err)
		}
		report.TreeRepaired = repaired
	}

	report.DurationMilli = time.Since(startedAt).Milliseconds()
	reconciler.logger.Info("reconcile_finished",
		slog.Int64("repaired", report.Repaired()),
		slog.Int64("duration_ms", report.DurationMilli),
	)

	return report, nil
}
