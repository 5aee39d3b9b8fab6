package protect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkip(t *testing.T) {
	f := New([]string{"C#", "React", "Eric Zaleta"})

	tests := []struct {
		text string
		skip bool
	}{
		{"", true},
		{"   ", true},
		{"3", true},
		{"2024 - 2025", true},
		{"$1,200.00", true},
		{"(+34) 600-000-000", true},
		{"→", true},
		{"hello@example.com", true},
		{"https://github.com/eric", true},
		{"EN", true},
		{"ES", true},
		{"UX", true},
		{"c#", true},
		{"React", true},
		{"eric zaleta", true},
		{"Hello world", false},
		{"Game Designer", false},
		{"Re", false},   // part of a term, not the term
		{"Eric", false}, // part of a term, not the term
		{"Reacts", false},
		{"ABCD", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.skip, f.Skip(tt.text))
		})
	}
}

func TestMask_WholeWordCaseInsensitive(t *testing.T) {
	f := New([]string{"React", "Next.js"})

	m := f.Mask("I build apps with react and Next.js, not Reactive stuff")
	assert.Equal(t, "I build apps with __PT0__ and __PT1__, not Reactive stuff", m.Text)
	assert.Equal(t, []string{"react", "Next.js"}, m.Protected())

	restored := m.Restore("Construyo apps con __PT0__ y __PT1__, no cosas reactivas")
	assert.Equal(t, "Construyo apps con react y Next.js, no cosas reactivas", restored)
}

func TestMask_LongestMatchWins(t *testing.T) {
	f := New([]string{"C#", "C"})

	m := f.Mask("I write C and C# daily")
	assert.Equal(t, "I write __PT0__ and __PT1__ daily", m.Text)
	assert.Equal(t, []string{"C", "C#"}, m.Protected())

	// "CSS" must not be touched by the "C" term
	m2 := f.Mask("CSS is not C")
	assert.Equal(t, "CSS is not __PT0__", m2.Text)
}

func TestMask_NoTerms(t *testing.T) {
	f := New(nil)
	m := f.Mask("Hello world")
	assert.Equal(t, "Hello world", m.Text)
	assert.Equal(t, "Hola mundo", m.Restore("Hola mundo"))
}

func TestRestore_ToleratesProviderMangling(t *testing.T) {
	f := New([]string{"Unity"})
	m := f.Mask("Made with Unity")
	require.Equal(t, "Made with __PT0__", m.Text)

	assert.Equal(t, "Hecho con Unity", m.Restore("Hecho con __pt0__"))
	assert.Equal(t, "Hecho con Unity", m.Restore("Hecho con __ PT0 __"))
	// Unknown placeholders are left alone
	assert.Equal(t, "Hecho con __PT7__", m.Restore("Hecho con __PT7__"))
}

func TestProtectedTermsSurviveAnyTranslation(t *testing.T) {
	f := Default()
	texts := []string{
		"Senior Unity developer shipping WebGL builds to Itch.io",
		"Built with TypeScript, React and Node.js on AWS",
		"Contact Eric Zaleta about VR projects",
	}

	for _, text := range texts {
		m := f.Mask(text)
		// A "translation" that rewrites everything except placeholders
		restored := m.Restore("<<" + m.Text + ">>")
		for _, occ := range m.Protected() {
			assert.Contains(t, restored, occ)
		}
		assert.NotContains(t, restored, "__PT")
	}
}

func TestContainsTerm(t *testing.T) {
	f := Default()
	assert.True(t, f.ContainsTerm("Experienced with Docker and Kubernetes"))
	assert.False(t, f.ContainsTerm("Designing playful experiences"))
}

func TestTermsIsACopy(t *testing.T) {
	f := New([]string{"Git", " ", "Steam"})
	terms := f.Terms()
	require.Equal(t, []string{"Git", "Steam"}, terms)
	terms[0] = "changed"
	assert.Equal(t, "Git", f.Terms()[0])
}
