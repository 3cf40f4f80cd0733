package ragbrowser

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/amityadav/ragweb/internal/extract"
	"github.com/amityadav/ragweb/internal/markdown"
	"github.com/amityadav/ragweb/internal/search"
)

// shape is the outer form of an actor response
type shape int

const (
	shapeList    shape = iota // [hit, ...]
	shapeWrapped              // {"results": [hit, ...]}
	shapeSingle               // hit
	shapeOther                // object with no hit fields, e.g. an error envelope
)

// hitKeys are the fields that mark a bare object as a single hit
var hitKeys = []string{"url", "link", "title", "name", "text", "content", "markdown", "html", "metadata", "searchResult"}

// payload is a decoded response tagged with its shape
type payload struct {
	shape shape
	hits  []hit // shapeList, shapeWrapped
	hit   hit   // shapeSingle
}

// hit is one crawled page kept as raw fields. Field names and types vary
// between actor versions, so each field is read on its own and a field of an
// unexpected type falls back to empty.
type hit map[string]json.RawMessage

var errUnknownShape = errors.New("response is neither an array nor an object")

// decodePayload classifies body into one of the accepted shapes. Only a
// broken outer document is an error; unreadable entries are skipped.
func decodePayload(body []byte) (payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return payload{}, errUnknownShape
	}

	switch trimmed[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return payload{}, err
		}
		return payload{shape: shapeList, hits: decodeHits(raws)}, nil

	case '{':
		var obj hit
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return payload{}, err
		}
		if raw, ok := obj["results"]; ok {
			var raws []json.RawMessage
			if err := json.Unmarshal(raw, &raws); err != nil {
				return payload{}, err
			}
			return payload{shape: shapeWrapped, hits: decodeHits(raws)}, nil
		}
		if !obj.isHit() {
			return payload{shape: shapeOther}, nil
		}
		return payload{shape: shapeSingle, hit: obj}, nil

	default:
		return payload{}, errUnknownShape
	}
}

func decodeHits(raws []json.RawMessage) []hit {
	hits := make([]hit, 0, len(raws))
	for i, raw := range raws {
		var h hit
		if err := json.Unmarshal(raw, &h); err != nil || h == nil {
			log.Printf("[RAGBrowser] Skipping entry %d: not an object", i)
			continue
		}
		hits = append(hits, h)
	}
	return hits
}

// results converts any payload shape into the common sequence
func (p payload) results() []search.Result {
	var hits []hit
	switch p.shape {
	case shapeList, shapeWrapped:
		hits = p.hits
	case shapeSingle:
		hits = []hit{p.hit}
	case shapeOther:
		log.Printf("[RAGBrowser] Response object carries no results")
	}

	results := make([]search.Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, h.toResult())
	}
	return results
}

// Normalize turns a raw actor response into results. Malformed JSON is
// logged and produces an empty, non-nil slice.
func Normalize(body []byte) []search.Result {
	p, err := decodePayload(body)
	if err != nil {
		log.Printf("[RAGBrowser] Ignoring malformed response (%d bytes): %v", len(body), err)
		return []search.Result{}
	}
	return p.results()
}

func (h hit) isHit() bool {
	for _, k := range hitKeys {
		if _, ok := h[k]; ok {
			return true
		}
	}
	return false
}

// str reads a string field. Numbers keep their JSON text; other types read
// as empty.
func (h hit) str(key string) string {
	raw, ok := h[key]
	if !ok {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

func (h hit) optionalStr(key string) *string {
	s := h.str(key)
	if s == "" {
		return nil
	}
	return &s
}

// number reads a JSON number; anything else is absent
func (h hit) number(key string) *float64 {
	raw, ok := h[key]
	if !ok {
		return nil
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return f
}

func (h hit) object(key string) hit {
	raw, ok := h[key]
	if !ok {
		return nil
	}
	var obj hit
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

func (h hit) toResult() search.Result {
	meta := h.object("metadata")
	serp := h.object("searchResult")
	html := h.str("html")

	title := firstNonEmpty(h.str("title"), h.str("name"), meta.str("title"), serp.str("title"))
	if title == "" {
		title = extract.Title(html)
	}

	content := firstNonEmpty(h.str("text"), h.str("content"), serp.str("description"), meta.str("description"))
	if content == "" && html != "" {
		text, err := extract.Text(html)
		if err != nil {
			log.Printf("[RAGBrowser] Failed to extract text: %v", err)
		}
		content = text
	}

	md := strings.TrimSpace(h.str("markdown"))
	if md == "" {
		md = markdown.FromHTML(firstNonEmpty(html, content))
	}

	return search.Result{
		Title:         title,
		URL:           firstNonEmpty(h.str("url"), h.str("link"), meta.str("url"), serp.str("url")),
		Content:       content,
		Markdown:      md,
		PublishedDate: h.optionalStr("publishedDate"),
		Score:         h.number("score"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
