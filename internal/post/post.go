// Package post runs the four chart pipelines of the room prices post and
// writes their output: standalone svg files, the html fragment with its
// hover script and optional PNG snapshots.
package post

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"roomviz/internal/chart"
	"roomviz/internal/config"
	"roomviz/internal/dataset"
	"roomviz/internal/geom"
	"roomviz/internal/scale"
	"roomviz/internal/source"
)

// Pipeline names, also used as figure ids in the html fragment.
const (
	NumByNeigh            = "numbyneigh"
	PopularKeywords       = "popularKeywords"
	PostFrequency         = "postFrequency"
	PopularKeywordsBubble = "popularKeywordsBubble"
)

// LocalObject is the topology object holding the local areas.
const LocalObject = "local"

type Post struct {
	Fetcher source.Fetcher
	Config  config.Config
	Logger  *log.Logger
}

func New(f source.Fetcher, cfg config.Config, lg *log.Logger) *Post {
	return &Post{
		Fetcher: f,
		Config:  cfg,
		Logger:  lg,
	}
}

type Result struct {
	Choropleth *chart.ChoroplethResult
	Diverging  *chart.DivergingResult
	TimeSeries *chart.TimeSeriesResult
	Bubble     *chart.BubbleResult

	mu     sync.Mutex
	failed map[string]error
}

func (r *Result) fail(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed == nil {
		r.failed = make(map[string]error)
	}
	r.failed[name] = err
}

// Failed returns the error of pipeline name, if it stopped.
func (r *Result) Failed(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed[name]
}

// Err joins the errors of every stopped pipeline.
func (r *Result) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, name := range []string{NumByNeigh, PopularKeywords, PostFrequency, PopularKeywordsBubble} {
		if err, ok := r.failed[name]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Build runs the pipelines concurrently. A failing pipeline is logged and
// left out; the others are not affected.
func (p *Post) Build(ctx context.Context) *Result {
	var (
		res Result
		g   errgroup.Group
	)
	run := func(name string, fn func(context.Context, *Result) error) {
		g.Go(func() error {
			now := time.Now()
			if err := fn(ctx, &res); err != nil {
				p.logError("pipeline stopped", "name", name, "err", err)
				res.fail(name, err)
				return nil
			}
			p.logDebug("pipeline done", "name", name, "elapsed", time.Since(now))
			return nil
		})
	}
	run(NumByNeigh, func(ctx context.Context, r *Result) (err error) {
		r.Choropleth, err = p.NumByNeigh(ctx)
		return
	})
	run(PopularKeywords, func(ctx context.Context, r *Result) (err error) {
		r.Diverging, err = p.PopularKeywords(ctx)
		return
	})
	run(PostFrequency, func(ctx context.Context, r *Result) (err error) {
		r.TimeSeries, err = p.PostFrequency(ctx)
		return
	})
	run(PopularKeywordsBubble, func(ctx context.Context, r *Result) (err error) {
		r.Bubble, err = p.PopularKeywordsBubble(ctx)
		return
	})
	// failures are kept on res, every run returns nil
	_ = g.Wait()
	return &res
}

// NumByNeigh draws the price map and its histogram. The coastlines are
// fetched with the other resources but not drawn.
func (p *Post) NumByNeigh(ctx context.Context) (*chart.ChoroplethResult, error) {
	list, err := source.FetchAll(ctx, p.Fetcher, source.Local, source.Prices, source.Coastlines)
	if err != nil {
		return nil, err
	}
	areas, err := geom.Decode(list[0], LocalObject)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source.Local, err)
	}
	prices, err := dataset.Decode(bytes.NewReader(list[1]), p.Logger)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source.Prices, err)
	}
	raw, err := dataset.DecodeRaw(bytes.NewReader(list[1]))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source.Prices, err)
	}
	if !json.Valid(list[2]) {
		p.logWarn("coastlines are not valid json", "name", source.Coastlines)
	}
	return p.Choropleth().Render(areas, prices, raw)
}

// Choropleth returns the map renderer set up from the configuration.
func (p *Post) Choropleth() chart.Choropleth {
	c := chart.NewChoropleth(p.Config.ContentWidth)
	c.Color = scale.NewQuantize(
		scale.NewDomain(p.Config.ColorDomain[0], p.Config.ColorDomain[1]),
		p.Config.Palette,
		p.Config.MissingColor,
	)
	c.Order = chart.Order(p.Config.HistogramSort)
	c.Logger = p.Logger
	return c
}

func (p *Post) PopularKeywords(ctx context.Context) (*chart.DivergingResult, error) {
	data, err := p.fetchDataset(ctx, source.Hotwords)
	if err != nil {
		return nil, err
	}
	return chart.Diverging{ContentWidth: p.Config.ContentWidth}.Render(data)
}

func (p *Post) PostFrequency(ctx context.Context) (*chart.TimeSeriesResult, error) {
	data, err := p.fetchDataset(ctx, source.Survival)
	if err != nil {
		return nil, err
	}
	return chart.TimeSeries{ContentWidth: p.Config.ContentWidth}.Render(data)
}

func (p *Post) PopularKeywordsBubble(ctx context.Context) (*chart.BubbleResult, error) {
	data, err := p.fetchDataset(ctx, source.Hotwords)
	if err != nil {
		return nil, err
	}
	return chart.Bubble{ContentWidth: p.Config.ContentWidth}.Render(data)
}

func (p *Post) fetchDataset(ctx context.Context, name string) (*dataset.Dataset, error) {
	buf, err := p.Fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := dataset.Decode(bytes.NewReader(buf), p.Logger)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return data, nil
}

func (p *Post) logError(msg string, kv ...any) {
	if p.Logger != nil {
		p.Logger.Error(msg, kv...)
	}
}

func (p *Post) logWarn(msg string, kv ...any) {
	if p.Logger != nil {
		p.Logger.Warn(msg, kv...)
	}
}

func (p *Post) logDebug(msg string, kv ...any) {
	if p.Logger != nil {
		p.Logger.Debug(msg, kv...)
	}
}
