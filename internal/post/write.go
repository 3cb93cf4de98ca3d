package post

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"roomviz/internal/raster"
	"roomviz/internal/svg"
)

// Output files.
const (
	MapFile       = "numbyneigh-map.svg"
	HistogramFile = "numbyneigh-hist.svg"
	KeywordsFile  = "popular-keywords.svg"
	FrequencyFile = "post-frequency.svg"
	BubbleFile    = "popular-keywords-bubble.svg"
	IndexFile     = "index.html"
	IndexJSONFile = "highlight-index.json"
	DefaultTitle  = "Room prices in Vancouver"
)

var page = template.Must(template.New("index").Parse(indexHTML))

type figure struct {
	ID      string
	Charts  []template.HTML
	Caption string
}

type pageData struct {
	Title    string
	PageCSS  template.CSS
	ChartCSS template.CSS
	Script   template.JS
	Figures  []figure
	Failed   []string
	Index    map[string][]string
}

// Documents returns the drawn documents by output file name.
func (r *Result) Documents() map[string]*svg.Document {
	docs := make(map[string]*svg.Document)
	if r.Choropleth != nil {
		docs[MapFile] = r.Choropleth.Map
		docs[HistogramFile] = r.Choropleth.Histogram
	}
	if r.Diverging != nil {
		docs[KeywordsFile] = r.Diverging.Doc
	}
	if r.TimeSeries != nil {
		docs[FrequencyFile] = r.TimeSeries.Doc
	}
	if r.Bubble != nil {
		docs[BubbleFile] = r.Bubble.Doc
	}
	return docs
}

// Standalone returns doc with the chart stylesheet inlined.
func Standalone(doc *svg.Document) *svg.Document {
	c := doc.Clone()
	c.Style = ChartCSS
	return c
}

// HighlightIndex returns the key -> element ids relation of the map.
func (r *Result) HighlightIndex() map[string][]string {
	if r.Choropleth == nil {
		return map[string][]string{}
	}
	return r.Choropleth.Index.Export()
}

// Page renders the html fragment holding every drawn chart.
func (r *Result) Page(title string) ([]byte, error) {
	if title == "" {
		title = DefaultTitle
	}
	data := pageData{
		Title:    title,
		PageCSS:  template.CSS(pageCSS),
		ChartCSS: template.CSS(ChartCSS),
		Script:   template.JS(HoverJS),
		Index:    r.HighlightIndex(),
	}
	add := func(id, caption string, docs ...*svg.Document) {
		f := figure{ID: id, Caption: caption}
		for _, d := range docs {
			if d != nil {
				f.Charts = append(f.Charts, template.HTML(d.String()))
			}
		}
		if len(f.Charts) > 0 {
			data.Figures = append(data.Figures, f)
		}
	}
	if c := r.Choropleth; c != nil {
		add(NumByNeigh, c.Histogram.Title, c.Map, c.Histogram)
	}
	var keywords []*svg.Document
	if r.Diverging != nil {
		keywords = append(keywords, r.Diverging.Doc)
	}
	if r.Bubble != nil {
		keywords = append(keywords, r.Bubble.Doc)
	}
	add(PopularKeywords, "", keywords...)
	if r.TimeSeries != nil {
		add(PostFrequency, "", r.TimeSeries.Doc)
	}
	for _, name := range []string{NumByNeigh, PopularKeywords, PostFrequency, PopularKeywordsBubble} {
		if err := r.Failed(name); err != nil {
			data.Failed = append(data.Failed, fmt.Sprintf("%s could not be drawn", name))
		}
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type WriteOptions struct {
	Title    string
	PNG      bool
	PNGScale float64
}

// Write stores every output of r under dir and returns the written paths.
func (r *Result) Write(dir string, opts WriteOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	put := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}
	for name, doc := range r.Documents() {
		single := Standalone(doc)
		if err := put(name, []byte(single.String())); err != nil {
			return written, err
		}
		if !opts.PNG {
			continue
		}
		var buf bytes.Buffer
		if err := raster.Encode(&buf, single, raster.Options{Scale: opts.PNGScale}); err != nil {
			return written, fmt.Errorf("snapshot %s: %w", name, err)
		}
		if err := put(strings.TrimSuffix(name, ".svg")+".png", buf.Bytes()); err != nil {
			return written, err
		}
	}
	index, err := json.MarshalIndent(r.HighlightIndex(), "", "  ")
	if err != nil {
		return written, err
	}
	if err := put(IndexJSONFile, index); err != nil {
		return written, err
	}
	html, err := r.Page(opts.Title)
	if err != nil {
		return written, err
	}
	if err := put(IndexFile, html); err != nil {
		return written, err
	}
	return written, nil
}
