package extract

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vthunder/flowpilot/internal/clarify"
	"github.com/vthunder/flowpilot/internal/classify"
	"github.com/vthunder/flowpilot/internal/filter"
	"github.com/vthunder/flowpilot/internal/logging"
	"github.com/vthunder/flowpilot/internal/normalize"
	"github.com/vthunder/flowpilot/internal/rules"
	"github.com/vthunder/flowpilot/internal/segment"
	"github.com/vthunder/flowpilot/internal/task"
	"github.com/vthunder/flowpilot/internal/temporal"
)

const defaultWorkers = 8

// Local is the rule-based pipeline: segment, filter, normalize, resolve dates,
// classify, then ask for missing due dates. It never fails on valid input
// unless ctx is cancelled.
type Local struct {
	segmenter  *segment.Segmenter
	filter     *filter.Filter
	normalizer *normalize.Normalizer
	resolver   *temporal.Resolver
	classifier *classify.Classifier
	workers    int
}

// NewLocal builds the pipeline over compiled tables. tagger is the
// part-of-speech fallback for the filter and may be nil.
func NewLocal(r *rules.Compiled, tagger filter.VerbTagger) *Local {
	resolver := temporal.New(r)
	return &Local{
		segmenter:  segment.New(r),
		filter:     filter.New(r, resolver, tagger),
		normalizer: normalize.New(r),
		resolver:   resolver,
		classifier: classify.New(r),
		workers:    defaultWorkers,
	}
}

func (l *Local) Name() string { return task.EngineLocal }

// Extract runs the pipeline. Segments are processed in parallel; output order
// follows input order.
func (l *Local) Extract(ctx context.Context, text string, now time.Time) (*task.ExtractionResult, error) {
	segs := l.segmenter.Split(text)
	slots := make([]*task.Task, len(segs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, seg := range segs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = l.buildTask(seg.Text, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := task.NewResult(task.EngineLocal)
	for _, t := range slots {
		if t != nil {
			res.Tasks = append(res.Tasks, *t)
		}
	}
	res.Clarifications = clarify.Generate(res.Tasks)
	return res, nil
}

// buildTask returns nil for segments the filter rejects
func (l *Local) buildTask(seg string, now time.Time) *task.Task {
	v := l.filter.Check(seg)
	if !v.Actionable {
		if v.Sarcastic {
			logging.Debug("extract", "Dropped sarcastic segment: %s", logging.Truncate(seg, 60))
		} else {
			logging.Debug("extract", "Dropped non-actionable segment: %s", logging.Truncate(seg, 60))
		}
		return nil
	}

	title := l.normalizer.Title(seg)
	due := l.resolver.Resolve(seg, now)
	c := l.classifier.Classify(title, due, now)

	return &task.Task{
		ID:           task.NewID(),
		Title:        title,
		OriginalText: seg,
		DueDate:      due,
		Priority:     c.Priority,
		Category:     c.Category,
		Assignee:     c.Assignee,
		IsClarified:  due != nil,
	}
}
