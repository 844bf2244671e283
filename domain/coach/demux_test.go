package coach

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

// collect feeds fragments through a demultiplexer and returns the full
// emitted prose plus the flushed metadata.
func collect(t *testing.T, fragments []string) (string, *Metadata) {
	t.Helper()
	d := NewDemultiplexer()
	var prose strings.Builder
	for _, f := range fragments {
		prose.WriteString(d.Write(f))
	}
	rest, meta := d.Flush()
	prose.WriteString(rest)
	return prose.String(), meta
}

func TestDemultiplexer_NoDelimiter(t *testing.T) {
	prose, meta := collect(t, []string{"Keep up", " the good work!"})
	require.Equal(t, "Keep up the good work!", prose)
	require.Nil(t, meta)
}

func TestDemultiplexer_DelimiterInOneFragment(t *testing.T) {
	prose, meta := collect(t, []string{
		`Great session.|||METADATA|||{"suggested_next_steps":["rest day"],"references":[1]}`,
	})
	require.Equal(t, "Great session.", prose)
	require.NotNil(t, meta)
	require.Equal(t, []string{"rest day"}, meta.SuggestedNextSteps)
	require.Equal(t, []int{1}, meta.References)
}

func TestDemultiplexer_DelimiterSplitAcrossFragments(t *testing.T) {
	prose, meta := collect(t, []string{
		"Nice pace today.",
		"|||MET",
		"ADATA|||",
		`{"references":[2,3]}`,
	})
	require.Equal(t, "Nice pace today.", prose)
	require.NotNil(t, meta)
	require.Equal(t, []int{2, 3}, meta.References)
}

func TestDemultiplexer_DelimiterSplitCharByChar(t *testing.T) {
	full := `Solid effort.|||METADATA|||{"suggested_next_steps":["stretch"]}`
	fragments := make([]string, 0, len(full))
	for _, r := range full {
		fragments = append(fragments, string(r))
	}
	prose, meta := collect(t, fragments)
	require.Equal(t, "Solid effort.", prose)
	require.NotNil(t, meta)
	require.Equal(t, []string{"stretch"}, meta.SuggestedNextSteps)
}

func TestDemultiplexer_MalformedTrailerDropped(t *testing.T) {
	prose, meta := collect(t, []string{"Well done.", MetadataDelimiter, `{"references": [1,`})
	require.Equal(t, "Well done.", prose)
	require.Nil(t, meta)
}

func TestDemultiplexer_DelimiterNeverEmitted(t *testing.T) {
	prose, _ := collect(t, []string{"a", MetadataDelimiter, "{}"})
	require.NotContains(t, prose, "|||")
	require.Equal(t, "a", prose)
}

func TestDemultiplexer_ProseAfterDelimiterGoesToTrailer(t *testing.T) {
	// Everything after the delimiter is trailer, even across fragments.
	d := NewDemultiplexer()
	require.Equal(t, "Good work.", d.Write("Good work."+MetadataDelimiter+`{"refer`))
	require.Equal(t, "", d.Write(`ences":[1]}`))
	rest, meta := d.Flush()
	require.Equal(t, "", rest)
	require.NotNil(t, meta)
	require.Equal(t, []int{1}, meta.References)
}

func TestDemultiplexer_PipesInProseAreKept(t *testing.T) {
	prose, meta := collect(t, []string{"a || b ||| c", " and more text after"})
	require.Equal(t, "a || b ||| c and more text after", prose)
	require.Nil(t, meta)
}

func TestDemultiplexer_ConcatenationInvariant(t *testing.T) {
	// Emitted prose is identical regardless of fragment boundaries.
	full := `You are improving steadily.|||METADATA|||{"references":[1,2]}`
	want, wantMeta := collect(t, []string{full})

	for size := 1; size <= 7; size++ {
		var fragments []string
		for i := 0; i < len(full); i += size {
			end := i + size
			if end > len(full) {
				end = len(full)
			}
			fragments = append(fragments, full[i:end])
		}
		prose, meta := collect(t, fragments)
		require.Equal(t, want, prose, "fragment size %d", size)
		require.Equal(t, wantMeta, meta, "fragment size %d", size)
	}
}

func TestDemultiplexer_EmissionsStayOnRuneBoundaries(t *testing.T) {
	// The hold-back window is measured in bytes; a multi-byte character
	// sitting on the window edge must not be split across two emissions,
	// since each one is JSON-encoded separately downstream.
	d := NewDemultiplexer()
	first := d.Write("aé0123456789ab")
	require.True(t, utf8.ValidString(first))
	require.Equal(t, "a", first)

	rest, meta := d.Flush()
	require.True(t, utf8.ValidString(rest))
	require.Equal(t, "é0123456789ab", rest)
	require.Nil(t, meta)
}

func TestDemultiplexer_MultiByteProseSurvivesFragmentation(t *testing.T) {
	full := `Allez, très bien, continuez à pédaler!|||METADATA|||{"references":[1]}`
	want, wantMeta := collect(t, []string{full})

	for size := 1; size <= 7; size++ {
		var fragments []string
		for i := 0; i < len(full); i += size {
			end := i + size
			if end > len(full) {
				end = len(full)
			}
			fragments = append(fragments, full[i:end])
		}

		d := NewDemultiplexer()
		var prose strings.Builder
		for _, f := range fragments {
			emitted := d.Write(f)
			require.True(t, utf8.ValidString(emitted), "fragment size %d", size)
			prose.WriteString(emitted)
		}
		rest, meta := d.Flush()
		require.True(t, utf8.ValidString(rest), "fragment size %d", size)
		prose.WriteString(rest)

		require.Equal(t, want, prose.String(), "fragment size %d", size)
		require.Equal(t, wantMeta, meta, "fragment size %d", size)
	}
}

func TestDemultiplexer_EmptyInput(t *testing.T) {
	d := NewDemultiplexer()
	rest, meta := d.Flush()
	require.Equal(t, "", rest)
	require.Nil(t, meta)
}
