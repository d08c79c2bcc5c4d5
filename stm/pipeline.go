package stm

import (
	"github.com/google/uuid"
)

// Pipeline drives the full space-traversal matching run described in
// spec.md §2: ray database → cell traversal → grouping → candidate
// scoring → approval. A Pipeline is built once from a validated Config
// and may be reused across runs; each Run gets a fresh RunID and Counters.
type Pipeline struct {
	cfg     Config
	grid    Grid
	box     AABB
	stencil [][3]int32
	logger  Logger
}

// NewPipeline validates cfg (spec.md §7 ConfigError) and builds the
// immutable grid it describes.
func NewPipeline(cfg Config, logger Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	stencil, err := cfg.stencil()
	if err != nil {
		return nil, err
	}
	box := cfg.box()
	return &Pipeline{
		cfg:     cfg,
		box:     box,
		grid:    NewGrid(box, cfg.NX, cfg.NY, cfg.NZ),
		stencil: stencil,
		logger:  logger,
	}, nil
}

// Run executes one pipeline pass over rays, returning the approved
// matches (spec.md §4.9). seeds are explicit candidate keys supplied by
// the caller (spec.md §4.6's "explicit seeds") that are merged into the
// candidate set before scoring, bypassing cell-based discovery.
func (p *Pipeline) Run(rays []Ray, seeds ...CandidateKey) ([]ApprovedMatch, *Counters, error) {
	runID := uuid.NewString()
	counters := newCounters()
	p.logger.Infof("run %s: starting, %d input rays, grid %dx%dx%d", runID, len(rays), p.cfg.NX, p.cfg.NY, p.cfg.NZ)

	db, valid, err := buildRayDB(rays, p.box, counters)
	if err != nil {
		return nil, counters, err
	}
	p.logger.Debugf("run %s: %d valid rays after AABB projection", runID, len(valid))

	cellRays, err := computeCellRays(valid, p.grid, p.stencil)
	if err != nil {
		return nil, counters, err
	}
	counters.CellsAfterExpansion = len(cellRays)
	p.logger.Debugf("run %s: %d (cell,ray) pairs after neighbourhood expansion", runID, len(cellRays))

	groups, err := groupByCellCam(cellRays, p.cfg.CamMatch)
	if err != nil {
		return nil, counters, err
	}
	counters.GroupsKept = len(groups)
	p.logger.Debugf("run %s: %d cells kept with >= %d cameras", runID, len(groups), p.cfg.CamMatch)

	candidateKeys := generateCandidates(groups, seeds)
	counters.CandidatesGenerated = len(candidateKeys)
	counters.CandidatesDeduped = len(candidateKeys)

	scored := scoreCandidates(candidateKeys, db, counters)
	p.logger.Debugf("run %s: %d candidates scored, %d degenerate", runID, len(scored), counters.DegenerateCandidates)

	approved := approve(scored, p.cfg.MaxDistance, p.cfg.MaxMatchesPerRay)
	counters.ApprovedMatches = len(approved)
	p.logger.Infof("run %s: done, %d approved matches out of %d candidates", runID, len(approved), len(scored))

	return approved, counters, nil
}
