package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/rmgweb/internal/app"
	"github.com/turtacn/rmgweb/internal/config"
	"github.com/turtacn/rmgweb/internal/infrastructure/database/redis"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/storage/minio"
	"github.com/turtacn/rmgweb/pkg/errors"
)

const (
	hydroxyl        = "1 *1 O u1 p2 c0 {2,S}\n2 H u0 p0 c0 {1,S}\n"
	hydroxylNoLabel = "1 O u1 p2 c0 {2,S}\n2 H u0 p0 c0 {1,S}\n"
	carbonyl        = "1 *1 C u0 {2,D}\n2 *2 O u0 {1,D}\n"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func testDeps() Dependencies {
	return Dependencies{
		LoadConfig: func(string) (*config.Config, error) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, nil
		},
		NewLogger: func(string) (logging.Logger, error) { return logging.NewNopLogger(), nil },
		OpenCache: func(context.Context, *config.Config, logging.Logger) (redis.Cache, io.Closer, error) {
			return nil, nil, errors.New(errors.ErrCodeServiceUnavailable, "no cache")
		},
		OpenStore: func(context.Context, *config.Config, logging.Logger) (minio.ObjectStore, error) {
			return nil, errors.New(errors.ErrCodeServiceUnavailable, "no store")
		},
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(deps Dependencies, stdin string, args ...string) result {
	cmd := NewRootCommand(deps)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*minio.ObjectInfo, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, key, string(data), size, contentType)
	info, _ := args.Get(0).(*minio.ObjectInfo)
	return info, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, key string) (*minio.Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(0).(*minio.Object)
	return obj, args.Error(1)
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand(testDeps())
	assert.Equal(t, "rmgctl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"encode", "decode", "markup", "sci", "routes", "depiction", "cache", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	pf := NewRootCommand(testDeps()).PersistentFlags()

	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout"} {
		assert.NotNil(t, pf.Lookup(name), "missing flag %q", name)
	}
	assert.Equal(t, "c", pf.Lookup("config").Shorthand)
	assert.Equal(t, "text", pf.Lookup("output").DefValue)
	assert.Equal(t, "warn", pf.Lookup("log-level").DefValue)
}

func TestPersistentPreRun_ConfigError(t *testing.T) {
	deps := testDeps()
	deps.LoadConfig = func(path string) (*config.Config, error) {
		assert.Equal(t, "missing.yaml", path)
		return nil, os.ErrNotExist
	}
	res := run(deps, "", "--config", "missing.yaml", "routes")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "config initialization failed")
}

func TestPersistentPreRun_VerboseUsesDebug(t *testing.T) {
	deps := testDeps()
	var got string
	deps.NewLogger = func(level string) (logging.Logger, error) {
		got = level
		return logging.NewNopLogger(), nil
	}
	require.NoError(t, run(deps, "", "-v", "routes").err)
	assert.Equal(t, "debug", got)
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)

	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	res := run(testDeps(), "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "rmgctl "+app.Version)

	res = run(testDeps(), "", "-o", "json", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"version": "`+app.Version+`"`)
}

func TestFormatTable(t *testing.T) {
	assert.Empty(t, FormatTable(nil, nil))

	out := FormatTable([]string{"Name", "Pattern"}, [][]string{{"home", "/"}})
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "home")
	assert.Contains(t, out, "+")
}

func TestPrintHelpers(t *testing.T) {
	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	PrintSuccess(cmd, "done")
	PrintError(cmd, errors.New(errors.ErrCodeBadRequest, "bad"))
	PrintError(cmd, nil)

	assert.Equal(t, "OK: done\n", out.String())
	assert.Equal(t, "Error: [COMMON_002] bad\n", errOut.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(errors.New(errors.ErrCodeAdjacencyListInvalid, "x")))
	assert.Equal(t, 1, exitCode(errors.New(errors.ErrCodeCacheError, "x")))
	assert.Equal(t, 1, exitCode(os.ErrNotExist))
}

// ─────────────────────────────────────────────────────────────────────────────
// encode / decode
// ─────────────────────────────────────────────────────────────────────────────

func TestEncode_Molecule(t *testing.T) {
	res := run(testDeps(), "", "encode", hydroxyl)
	require.NoError(t, res.err)

	seg := strings.TrimSpace(res.stdout)
	assert.NotContains(t, seg, "*1")
	assert.Contains(t, seg, "%0A")
	assert.NotContains(t, seg, " ")

	plain := run(testDeps(), "", "encode", hydroxylNoLabel)
	require.NoError(t, plain.err)
	assert.Equal(t, res.stdout, plain.stdout)
}

func TestEncode_EscapedNewlinesAndStdin(t *testing.T) {
	arg := run(testDeps(), "", "encode", strings.ReplaceAll(hydroxyl, "\n", `\n`))
	stdin := run(testDeps(), hydroxyl, "encode")
	dash := run(testDeps(), hydroxyl, "encode", "-")
	require.NoError(t, arg.err)
	require.NoError(t, stdin.err)
	require.NoError(t, dash.err)

	assert.Equal(t, arg.stdout, stdin.stdout)
	assert.Equal(t, arg.stdout, dash.stdout)
}

func TestEncode_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oh.adj")
	require.NoError(t, os.WriteFile(path, []byte(hydroxyl), 0o600))

	res := run(testDeps(), "", "encode", "-f", path)
	require.NoError(t, res.err)
	assert.NotEmpty(t, strings.TrimSpace(res.stdout))

	res = run(testDeps(), "", "encode", "-f", filepath.Join(t.TempDir(), "none"))
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))
}

func TestEncode_JSONPaths(t *testing.T) {
	res := run(testDeps(), "", "-o", "json", "encode", "--group", carbonyl)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"kind": "group"`)
	assert.Contains(t, res.stdout, `"info_path": "/database/group/`)
	assert.Contains(t, res.stdout, `"draw_path": "/group/`)
}

func TestEncode_Invalid(t *testing.T) {
	res := run(testDeps(), "", "encode", "1 C u0 {2,S}")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeAdjacencyListInvalid))
	assert.Equal(t, 2, exitCode(res.err))
}

func TestDecode_RoundTrip(t *testing.T) {
	enc := run(testDeps(), "", "encode", hydroxyl)
	require.NoError(t, enc.err)

	dec := run(testDeps(), "", "decode", strings.TrimSpace(enc.stdout))
	require.NoError(t, dec.err)
	assert.Equal(t, strings.TrimRight(hydroxylNoLabel, "\n"), strings.TrimSpace(dec.stdout))

	tbl := run(testDeps(), "", "-o", "table", "decode", strings.TrimSpace(enc.stdout))
	require.NoError(t, tbl.err)
	assert.Contains(t, tbl.stdout, "HO")
}

func TestDecode_Group(t *testing.T) {
	enc := run(testDeps(), "", "encode", "--group", carbonyl)
	require.NoError(t, enc.err)

	dec := run(testDeps(), "", "-o", "json", "decode", "--group", strings.TrimSpace(enc.stdout))
	require.NoError(t, dec.err)
	assert.Contains(t, dec.stdout, `"kind": "group"`)
	assert.Contains(t, dec.stdout, `"atoms": 2`)
}

func TestDecode_HeavyAtoms(t *testing.T) {
	enc := run(testDeps(), "", "encode", hydroxyl)
	require.NoError(t, enc.err)
	segment := strings.TrimSpace(enc.stdout)

	dec := run(testDeps(), "", "decode", "--heavy-atoms", segment)
	require.NoError(t, dec.err)
	assert.Equal(t, "1 O u1 p2 c0", strings.TrimSpace(dec.stdout))

	js := run(testDeps(), "", "-o", "json", "decode", "--heavy-atoms", segment)
	require.NoError(t, js.err)
	assert.Contains(t, js.stdout, `"atoms": 2`)

	res := run(testDeps(), "", "decode", "--group", "--heavy-atoms", segment)
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))
}

func TestDecode_Errors(t *testing.T) {
	res := run(testDeps(), "", "decode", "%ZZ")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeURLDecodeFailed))

	res = run(testDeps(), "", "decode", "x")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeAdjacencyListInvalid))
}

// ─────────────────────────────────────────────────────────────────────────────
// markup / sci / routes
// ─────────────────────────────────────────────────────────────────────────────

func TestMarkup(t *testing.T) {
	res := run(testDeps(), "", "markup", hydroxyl)
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, `<img src="/molecule/`))

	res = run(testDeps(), "", "markup", "--info", hydroxyl)
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, `<a href="/database/molecule/`))

	res = run(testDeps(), "", "markup", "--label", "hydroxyl", hydroxyl)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `alt="hydroxyl" title="hydroxyl"`)

	res = run(testDeps(), "", "markup", "--group", carbonyl)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `<img src="/group/`)
}

func TestSci(t *testing.T) {
	res := run(testDeps(), "", "sci", "1500", "-0.002", "0")
	require.NoError(t, res.err)
	assert.Equal(t, "1.5 \\times 10^{3}\n-2 \\times 10^{-3}\n0\n", res.stdout)

	res = run(testDeps(), "", "sci", "abc")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))
}

func TestSci_NegativeValuesAndFlags(t *testing.T) {
	res := run(testDeps(), "", "sci", "-0.002")
	require.NoError(t, res.err)
	assert.Equal(t, "-2 \\times 10^{-3}\n", res.stdout)

	res = run(testDeps(), "", "sci", "--timeout", "5s", "-1e3", "2", "-inf")
	require.NoError(t, res.err)
	assert.Equal(t, "-1 \\times 10^{3}\n2 \\times 10^{0}\n-\\infty\n", res.stdout)

	res = run(testDeps(), "", "sci", "--", "-5")
	require.NoError(t, res.err)
	assert.Equal(t, "-5 \\times 10^{0}\n", res.stdout)

	res = run(testDeps(), "", "sci", "-h")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "sci VALUE...")

	res = run(testDeps(), "", "sci", "--bogus", "1")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))

	res = run(testDeps(), "", "sci", "--timeout", "5s")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))
}

func TestRoutes(t *testing.T) {
	res := run(testDeps(), "", "routes")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "database.molecule")
	assert.Contains(t, res.stdout, "/database/molecule/{adjlist}")
	assert.Contains(t, res.stdout, "draw.group")

	res = run(testDeps(), "", "-o", "json", "routes")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"Pattern": "/group/{adjlist}"`)
}

// ─────────────────────────────────────────────────────────────────────────────
// depiction / cache
// ─────────────────────────────────────────────────────────────────────────────

func TestDepictionKey(t *testing.T) {
	res := run(testDeps(), "", "depiction", "key", hydroxyl)
	require.NoError(t, res.err)

	key := strings.TrimSpace(res.stdout)
	assert.True(t, strings.HasPrefix(key, "molecule/"))
	assert.Len(t, key, len("molecule/")+64)

	plain := run(testDeps(), "", "depiction", "key", hydroxylNoLabel)
	assert.Equal(t, res.stdout, plain.stdout)
}

func TestDepictionUpload(t *testing.T) {
	image := filepath.Join(t.TempDir(), "oh.png")
	require.NoError(t, os.WriteFile(image, []byte("png-bytes"), 0o600))

	keyRes := run(testDeps(), "", "depiction", "key", hydroxyl)
	require.NoError(t, keyRes.err)
	key := strings.TrimSpace(keyRes.stdout)

	store := &mockStore{}
	store.On("Put", mock.Anything, key, "png-bytes", int64(9), "image/png").
		Return(&minio.ObjectInfo{Key: key, Size: 9, ContentType: "image/png", ETag: "abc"}, nil)

	deps := testDeps()
	deps.OpenStore = func(context.Context, *config.Config, logging.Logger) (minio.ObjectStore, error) {
		return store, nil
	}

	res := run(deps, "", "depiction", "upload", "--image", image, hydroxyl)
	require.NoError(t, res.err)
	assert.Equal(t, key+" (image/png, 9 bytes)\n", res.stdout)
	store.AssertExpectations(t)
}

func TestDepictionUpload_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "oh.txt")
	png := filepath.Join(dir, "oh.png")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(png, []byte("x"), 0o600))

	deps := testDeps()
	deps.OpenStore = func(context.Context, *config.Config, logging.Logger) (minio.ObjectStore, error) {
		return &mockStore{}, nil
	}

	res := run(deps, "", "depiction", "upload", "--image", txt, hydroxyl)
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))

	res = run(deps, "", "depiction", "upload", "--image", filepath.Join(dir, "none.png"), hydroxyl)
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))

	res = run(testDeps(), "", "depiction", "upload", "--image", png, hydroxyl)
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeServiceUnavailable))

	res = run(deps, "", "depiction", "upload", hydroxyl)
	require.Error(t, res.err)
}

func TestCacheFlush(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("rmgweb:markup:info:molecule:a", "1"))
	require.NoError(t, mr.Set("rmgweb:markup:markup:group:b", "2"))
	require.NoError(t, mr.Set("rmgweb:session", "3"))

	deps := testDeps()
	deps.OpenCache = func(ctx context.Context, cfg *config.Config, logger logging.Logger) (redis.Cache, io.Closer, error) {
		rc := cfg.Redis
		rc.Addr = mr.Addr()
		client, cache, err := app.OpenRedis(rc, logger)
		if err != nil {
			return nil, nil, err
		}
		return cache, client, nil
	}

	res := run(deps, "", "cache", "flush")
	require.NoError(t, res.err)
	assert.Equal(t, "OK: removed 2 cached fragments\n", res.stdout)
	assert.True(t, mr.Exists("rmgweb:session"))
	assert.False(t, mr.Exists("rmgweb:markup:info:molecule:a"))
}

func TestCacheFlush_Unavailable(t *testing.T) {
	res := run(testDeps(), "", "cache", "flush")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeServiceUnavailable))
}

func TestDefaultDependencies_DisabledBackends(t *testing.T) {
	deps := DefaultDependencies()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	_, _, err := deps.OpenCache(context.Background(), cfg, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	_, err = deps.OpenStore(context.Background(), cfg, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

//Personal.AI order the ending
