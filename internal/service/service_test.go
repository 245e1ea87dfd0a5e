package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notesapp/notes-server/internal/auth"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/metrics"
	"github.com/notesapp/notes-server/internal/store/sqlite"
)

// fastParams keep argon2 cheap in tests.
var fastParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type testEnv struct {
	store    *sqlite.Store
	tokens   *auth.TokenService
	metrics  *metrics.Metrics
	auth     *AuthService
	notes    *NoteService
	tags     *TagService
	profile  *ProfileService
	settings *SettingsService
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	m := metrics.New()

	return &testEnv{
		store:    s,
		tokens:   tokens,
		metrics:  m,
		auth:     NewAuthService(s, auth.NewPasswordHasher(fastParams), tokens, m, nil),
		notes:    NewNoteService(s, m, nil),
		tags:     NewTagService(s, nil),
		profile:  NewProfileService(s, nil),
		settings: NewSettingsService(s, nil),
	}
}

// register creates an account and returns it with its default tags.
func (e *testEnv) register(t *testing.T, email string) (*domain.User, []domain.Tag) {
	t.Helper()
	ctx := context.Background()

	user, err := e.auth.Register(ctx, RegisterRequest{Name: "Test User", Email: email, Password: "secret123"})
	require.NoError(t, err)

	tags, err := e.tags.ListTags(ctx, user.ID)
	require.NoError(t, err)
	return user, tags
}

// requireCode asserts err is a domain error with the given code and returns it.
func requireCode(t *testing.T, err error, code domainerrors.Code) *domainerrors.Error {
	t.Helper()
	require.Error(t, err)
	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code, "message: %s", de.Message)
	return de
}

func fieldDetails(t *testing.T, de *domainerrors.Error) map[string]string {
	t.Helper()
	details, ok := de.Details.(map[string]string)
	require.True(t, ok, "details: %#v", de.Details)
	return details
}

// counterValue reads a counter from the test registry, 0 when the series does not exist.
func counterValue(t *testing.T, env *testEnv, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := env.metrics.Registry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
