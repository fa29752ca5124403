package resolver

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecolens/internal/catalog"
)

func TestResolve_KnownLabels(t *testing.T) {
	r := New(nil)

	tests := []struct {
		label string
		want  string
	}{
		{label: "plastic water bottle", want: "Plastic Water Bottle"},
		{label: "Red Wine Bottle, glass", want: "Plastic Water Bottle"},
		{label: "WATER BOTTLE", want: "Plastic Water Bottle"},
		{label: "cellular telephone, cellular phone, cellphone, cell, mobile phone", want: "Smartphone"},
		{label: "jersey, T-shirt, tee shirt", want: "Cotton T-Shirt"},
		{label: "coffee mug", want: "Paper Coffee Cup"},
		{label: "espresso cup", want: "Paper Coffee Cup"},
		// Substring matching is deliberately loose.
		{label: "cupboard", want: "Paper Coffee Cup"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := r.Resolve(tt.label)
			assert.Equal(t, tt.want, got.Name)
			assert.False(t, got.Fallback)
		})
	}
}

func TestResolve_Fallback(t *testing.T) {
	r := New(nil)

	got := r.Resolve("xyz-unknown-thing")
	assert.Equal(t, "xyz-unknown-thing", got.Name)
	assert.InDelta(t, 1.0, got.CarbonFootprintKg, 1e-12)
	assert.True(t, got.Fallback)
	assert.Empty(t, got.Alternatives)

	got = r.Resolve("tabby, tabby cat")
	assert.Equal(t, "tabby", got.Name)

	got = r.Resolve("")
	assert.True(t, got.Fallback)
	assert.Equal(t, "", got.Name)
}

func TestResolve_CatalogOrderWins(t *testing.T) {
	// "bottle" (entry 0) and "phone" (entry 1) both appear; entry order decides.
	r := New(nil)
	assert.Equal(t, "Plastic Water Bottle", r.Resolve("phone shaped bottle").Name)

	c := catalog.New([]catalog.Entry{
		{Keywords: []string{"cup"}, Name: "First", CarbonFootprintKg: 1},
		{Keywords: []string{"coffee cup"}, Name: "Second", CarbonFootprintKg: 2},
	})
	assert.Equal(t, "First", New(c).Resolve("coffee cup").Name)
}

func TestResolveDetailed(t *testing.T) {
	r := New(nil)

	res := r.ResolveDetailed("Soda Bottle")
	assert.True(t, res.Matched)
	assert.Equal(t, "bottle", res.Keyword)

	res = r.ResolveDetailed("toaster")
	assert.False(t, res.Matched)
	assert.Empty(t, res.Keyword)
}

func TestResolve_DoesNotLeakCatalogState(t *testing.T) {
	c := catalog.Default()
	r := New(c)

	e := r.Resolve("bottle")
	e.Alternatives[0].Name = "mutated"
	e.Keywords[0] = "mutated"

	assert.Equal(t, "Reusable Stainless Steel Bottle", r.Resolve("bottle").Alternatives[0].Name)
	assert.Equal(t, "bottle", c.Entries()[0].Keywords[0])
}

func TestResolve_WholeWordMode(t *testing.T) {
	r := New(nil, WithMatchMode(MatchWholeWord))
	assert.Equal(t, MatchWholeWord, r.Mode())

	assert.True(t, r.Resolve("cupboard").Fallback)
	assert.Equal(t, "Paper Coffee Cup", r.Resolve("coffee mug, cup").Name)
	assert.Equal(t, "Cotton T-Shirt", r.Resolve("jersey, T-shirt, tee shirt").Name)
	assert.Equal(t, "Smartphone", r.Resolve("cell phone").Name)
	assert.True(t, r.Resolve("phonebook").Fallback)
	assert.Equal(t, "Plastic Water Bottle", r.Resolve("water-bottle? no: water bottle").Name)
}

func TestParseMatchMode(t *testing.T) {
	m, ok := ParseMatchMode("WORD")
	require.True(t, ok)
	assert.Equal(t, MatchWholeWord, m)

	m, ok = ParseMatchMode("")
	require.True(t, ok)
	assert.Equal(t, MatchSubstring, m)

	_, ok = ParseMatchMode("fuzzy")
	assert.False(t, ok)
}

// Resolve must terminate with a non-negative footprint for any input.
func TestResolve_TotalOverArbitraryLabels(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdefghijklmnopqrstuvwxyz ,-ÄÖüé漢字0123456789\t\n")

	for _, mode := range []MatchMode{MatchSubstring, MatchWholeWord} {
		r := New(nil, WithMatchMode(mode))
		for i := 0; i < 500; i++ {
			var b strings.Builder
			n := rng.Intn(40)
			for k := 0; k < n; k++ {
				b.WriteRune(alphabet[rng.Intn(len(alphabet))])
			}
			label := b.String()

			t.Run(fmt.Sprintf("%s/%d", mode, i), func(t *testing.T) {
				e := r.Resolve(label)
				assert.GreaterOrEqual(t, e.CarbonFootprintKg, 0.0)
				if e.Fallback {
					assert.Equal(t, catalog.Fallback(label).Name, e.Name)
				} else {
					assert.NotEmpty(t, e.Name)
				}
			})
		}
	}
}
