package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/fanout/internal/domain"
	dombatch "github.com/kailas-cloud/fanout/internal/domain/batch"
	batchuc "github.com/kailas-cloud/fanout/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/fanout/internal/usecase/health"
)

// --- fakes ---

type fakeHealth struct{ report healthuc.Report }

func (f fakeHealth) Check(context.Context) healthuc.Report { return f.report }

type recordingGetter struct {
	keys        []string
	concurrency int
}

func (g *recordingGetter) Get(_ context.Context, keys []string, concurrency int) (dombatch.Result, error) {
	g.keys = keys
	g.concurrency = concurrency
	outcomes := make([]dombatch.Outcome, len(keys))
	for i, k := range keys {
		outcomes[i] = dombatch.NewSuccess(k, domain.NewItem(k, nil))
	}
	return dombatch.NewResult(outcomes), nil
}

func fixedOpener(batch batchGetter, health healthReporter) (opener, *bool) {
	closed := new(bool)
	return func(context.Context, globalOptions) (services, error) {
		return services{batch: batch, health: health, close: func() { *closed = true }}, nil
	}, closed
}

func lookupService() batchGetter {
	exec := domain.ExecutorFunc(func(_ context.Context, key string) (domain.Item, error) {
		if strings.HasPrefix(key, "missing") {
			return domain.Item{}, domain.ErrItemNotFound
		}
		return domain.NewItem(key, []domain.Record{{"id": key}}), nil
	})
	return batchuc.New(batchuc.NewRunner(nil), exec)
}

func run(t *testing.T, open opener, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// --- get ---

func TestGet_Pretty(t *testing.T) {
	open, closed := fixedOpener(lookupService(), nil)

	out, err := run(t, open, "", "get", "a", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "- [OK] a (1 record(s))") || !strings.Contains(out, "- [OK] b") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "2 ok / 0 failed / 0 cancelled") {
		t.Errorf("missing summary:\n%s", out)
	}
	if !*closed {
		t.Error("expected services to be closed")
	}
}

func TestGet_JSONWithFailure(t *testing.T) {
	open, _ := fixedOpener(lookupService(), nil)

	out, err := run(t, open, "", "get", "a", "missing-1", "c", "--format", "json")
	if err == nil {
		t.Fatal("expected non-nil error when a key fails")
	}

	var res resultJSON
	if jerr := json.Unmarshal([]byte(out), &res); jerr != nil {
		t.Fatalf("decode output: %v\n%s", jerr, out)
	}
	if res.Succeeded != 2 || res.Failed != 1 {
		t.Errorf("unexpected counts: %+v", res)
	}
	if res.Items[1].Key != "missing-1" || res.Items[1].Status != "error" {
		t.Errorf("unexpected second item: %+v", res.Items[1])
	}
	if !strings.Contains(res.Items[1].Error, domain.ErrItemNotFound.Error()) {
		t.Errorf("expected not-found message, got %q", res.Items[1].Error)
	}
	if res.Items[0].Records[0]["id"] != "a" {
		t.Errorf("unexpected first record: %+v", res.Items[0])
	}
}

func TestGet_StdinAndConcurrency(t *testing.T) {
	getter := &recordingGetter{}
	open, _ := fixedOpener(getter, nil)

	_, err := run(t, open, "x\n\n  y  \nz\n", "get", "w", "--stdin", "-c", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"w", "x", "y", "z"}
	if strings.Join(getter.keys, ",") != strings.Join(want, ",") {
		t.Errorf("expected keys %v, got %v", want, getter.keys)
	}
	if getter.concurrency != 3 {
		t.Errorf("expected concurrency 3, got %d", getter.concurrency)
	}
}

func TestGet_NoKeys(t *testing.T) {
	open, _ := fixedOpener(&recordingGetter{}, nil)
	if _, err := run(t, open, "", "get"); err == nil {
		t.Fatal("expected error without keys")
	}
}

func TestGet_InvalidConcurrency(t *testing.T) {
	open, _ := fixedOpener(lookupService(), nil)

	_, err := run(t, open, "", "get", "a", "--concurrency", "-1")
	if !errors.Is(err, domain.ErrInvalidConcurrency) {
		t.Fatalf("expected ErrInvalidConcurrency, got %v", err)
	}
}

func TestGet_UnknownFormat(t *testing.T) {
	open, _ := fixedOpener(lookupService(), nil)
	if _, err := run(t, open, "", "get", "a", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestGet_OpenError(t *testing.T) {
	open := func(context.Context, globalOptions) (services, error) {
		return services{}, errors.New("store not ready")
	}
	if _, err := run(t, open, "", "get", "a"); err == nil {
		t.Fatal("expected open error to surface")
	}
}

// --- health / version ---

func TestHealth(t *testing.T) {
	report := healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"store": healthuc.CheckOK, "cache": healthuc.CheckError},
	}
	open, _ := fixedOpener(nil, fakeHealth{report: report})

	out, err := run(t, open, "", "health")
	if err == nil {
		t.Fatal("expected error for degraded status")
	}
	if !strings.Contains(out, "status: degraded") || !strings.Contains(out, "cache: error") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Index(out, "cache:") > strings.Index(out, "store:") {
		t.Errorf("expected checks sorted by name:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, nil, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "fanout dev") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestReadKeys(t *testing.T) {
	keys, err := readKeys(strings.NewReader("a\r\n\nb\n   \nc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(keys, ",") != "a,b,c" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestGet_JSONKeepsLargeNumbers(t *testing.T) {
	const id = "12345678901234567"
	exec := domain.ExecutorFunc(func(_ context.Context, key string) (domain.Item, error) {
		return domain.NewItem(key, []domain.Record{{"seq": json.Number(id)}}), nil
	})
	open, _ := fixedOpener(batchuc.New(batchuc.NewRunner(nil), exec), nil)

	out, err := run(t, open, "", "get", "order#1", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"seq": `+id) {
		t.Errorf("expected unquoted %s in output:\n%s", id, out)
	}
}
