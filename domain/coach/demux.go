package coach

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// MetadataDelimiter separates the prose portion of a model response from
// its trailing metadata JSON.
const MetadataDelimiter = "|||METADATA|||"

// Demultiplexer incrementally splits a token stream into prose and a
// trailing metadata block. Fragments may split the delimiter at any byte
// boundary, so the demultiplexer holds back the last len(delimiter)-1
// characters of undecided prose until more input or Flush resolves them.
// The delimiter itself is never emitted.
type Demultiplexer struct {
	delimiter string
	prose     strings.Builder
	trailer   strings.Builder
	seen      bool
}

// NewDemultiplexer creates a demultiplexer using MetadataDelimiter.
func NewDemultiplexer() *Demultiplexer {
	return &Demultiplexer{delimiter: MetadataDelimiter}
}

// Write consumes one stream fragment and returns the prose that is now
// safe to emit. Once the delimiter has been seen, all further input is
// buffered as the metadata trailer and Write returns "".
func (d *Demultiplexer) Write(fragment string) string {
	if d.seen {
		d.trailer.WriteString(fragment)
		return ""
	}

	d.prose.WriteString(fragment)
	buf := d.prose.String()

	if idx := strings.Index(buf, d.delimiter); idx >= 0 {
		d.seen = true
		d.trailer.WriteString(buf[idx+len(d.delimiter):])
		d.prose.Reset()
		return buf[:idx]
	}

	// Hold back a suffix that could still turn out to be the start of
	// the delimiter in a later fragment.
	hold := len(d.delimiter) - 1
	if hold > len(buf) {
		hold = len(buf)
	}
	cut := len(buf) - hold
	// Never cut in the middle of a rune: each emission is JSON-encoded
	// on its own, so a split multi-byte character would be mangled into
	// replacement characters.
	for cut > 0 && !utf8.RuneStart(buf[cut]) {
		cut--
	}
	emit := buf[:cut]
	d.prose.Reset()
	d.prose.WriteString(buf[cut:])
	return emit
}

// Flush ends the stream. It returns any held-back prose and, if a
// syntactically valid JSON trailer followed the delimiter, the parsed
// metadata. A malformed trailer is dropped silently; a stream with no
// delimiter yields all its content as prose and nil metadata.
func (d *Demultiplexer) Flush() (string, *Metadata) {
	rest := d.prose.String()
	d.prose.Reset()

	if !d.seen {
		return rest, nil
	}

	raw := []byte(strings.TrimSpace(d.trailer.String()))
	d.trailer.Reset()
	if !json.Valid(raw) {
		return rest, nil
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return rest, nil
	}
	return rest, &meta
}
