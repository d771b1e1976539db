package handler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scanova-console/internal/notify"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewConsole(Options{In: strings.NewReader(input), Out: out}), out
}

func TestSplitLine(t *testing.T) {
	tokens, err := splitLine(`course create name="Physics 101" description='It''s' note=a\ b`)
	require.NoError(t, err)
	assert.Equal(t, []string{"course", "create", "name=Physics 101", "description=Its", "note=a b"}, tokens)

	tokens, err = splitLine("   ")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	_, err = splitLine(`invite message="unterminated`)
	assert.EqualError(t, err, `unterminated " quote`)
}

func TestParseInput(t *testing.T) {
	in := ParseInput([]string{"c1", "Name=Bio", "extra.Section=B", "extra.seat=12", "roll=", "=x"})

	assert.Equal(t, []string{"c1", "=x"}, in.Args)
	assert.Equal(t, "Bio", in.Value("name"))
	assert.True(t, in.Has("roll"))
	assert.Equal(t, "", in.Value("roll"))
	assert.False(t, in.Has("batch"))
	assert.Equal(t, map[string]interface{}{"section": "B", "seat": "12"}, in.Prefixed("extra."))
	assert.Equal(t, "", in.Arg(5))
}

func TestDispatchPrefersTwoWordCommands(t *testing.T) {
	c, out := newTestConsole("")
	var got []string
	c.Register("students", "students", "list", func(ctx context.Context, in *Input) error {
		got = append(got, "list:"+strings.Join(in.Args, ","))
		return nil
	})
	c.Register("students use", "students use <id>", "select", func(ctx context.Context, in *Input) error {
		got = append(got, "use:"+in.Arg(0))
		return nil
	})

	require.NoError(t, c.Dispatch(context.Background(), "students use c1"))
	require.NoError(t, c.Dispatch(context.Background(), "STUDENTS reload"))
	assert.Equal(t, []string{"use:c1", "list:reload"}, got)
	assert.Empty(t, out.String())
}

func TestDispatchReportsErrors(t *testing.T) {
	c, out := newTestConsole("")
	c.Register("usage", "usage <x>", "", func(context.Context, *Input) error {
		return &UsageError{Usage: "usage <x>"}
	})
	c.Register("toasted", "toasted", "", func(context.Context, *Input) error { return errReported })
	c.Register("api", "api", "", func(context.Context, *Input) error {
		return appErrors.FromStatus(404, "Course not found", nil)
	})
	c.Register("plain", "plain", "", func(context.Context, *Input) error { return errors.New("disk full") })

	ctx := context.Background()
	assert.Error(t, c.Dispatch(ctx, "nope"))
	assert.Error(t, c.Dispatch(ctx, "usage"))
	assert.Error(t, c.Dispatch(ctx, "toasted"))
	assert.Error(t, c.Dispatch(ctx, "api"))
	assert.Error(t, c.Dispatch(ctx, "plain"))

	assert.Equal(t, strings.Join([]string{
		`error: unknown command "nope" (try help)`,
		"error: usage: usage <x>",
		"error: Course not found",
		"error: disk full",
	}, "\n")+"\n", out.String())
}

func TestRunStopsOnExitAndEOF(t *testing.T) {
	c, out := newTestConsole("help\nexit\nhelp\n")
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 1, strings.Count(out.String(), "Leave the console"))

	c, _ = newTestConsole("help")
	require.NoError(t, c.Run(context.Background()))
}

func TestConfirmPresenterResolvesFromInput(t *testing.T) {
	cases := map[string]bool{
		"y\n":      true,
		"YES\n":    true,
		"delete\n": true,
		"n\n":      false,
		"\n":       false,
		"":         false,
	}
	for input, want := range cases {
		c, out := newTestConsole(input)
		var confirmer *notify.Confirmer
		confirmer = notify.NewConfirmer(c.ConfirmPresenter(func(ok bool) error { return confirmer.Resolve(ok) }))

		ok, err := confirmer.Confirm(context.Background(), notify.ConfirmRequest{
			Title:       "Delete Course",
			Message:     "Are you sure?",
			ConfirmText: "Delete",
		})
		require.NoError(t, err, input)
		assert.Equal(t, want, ok, input)
		assert.Contains(t, out.String(), "Delete / Cancel [y/N]: ")
	}
}

func TestReadSecretUsesPasswordReader(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewConsole(Options{
		In:           strings.NewReader("visible\n"),
		Out:          out,
		ReadPassword: func() ([]byte, error) { return []byte("hidden"), nil },
	})
	secret, err := c.ReadSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "hidden", secret)
	assert.Equal(t, "Password: \n", out.String())
}

func TestTableAndToastSink(t *testing.T) {
	c, out := newTestConsole("")
	c.Table([]string{"ID", "NAME"}, [][]string{{"c1", "Physics"}, {"c22", orDash(" ")}})
	assert.Equal(t, "ID   NAME\nc1   Physics\nc22  -\n", out.String())

	out.Reset()
	sink := c.ToastSink()
	sink(notify.Toast{Message: "Saved.", Kind: notify.KindSuccess})
	sink(notify.Toast{Message: "Failed.", Kind: notify.KindError})
	assert.Equal(t, "[ok] Saved.\n[!!] Failed.\n", out.String())
}
