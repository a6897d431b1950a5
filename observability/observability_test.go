package observability

import (
	"errors"
	"testing"
)

func TestFields(t *testing.T) {
	cases := []struct {
		f    Field
		key  string
		want interface{}
	}{
		{String("project", "Maple St 12"), "project", "Maple St 12"},
		{Int(MetricPageCount, 4), MetricPageCount, 4},
		{Float64(MetricWriteTime, 0.25), MetricWriteTime, 0.25},
	}
	for _, c := range cases {
		if c.f.Key() != c.key {
			t.Errorf("key = %q, want %q", c.f.Key(), c.key)
		}
		if c.f.Value() != c.want {
			t.Errorf("value = %v, want %v", c.f.Value(), c.want)
		}
	}

	err := errors.New("boom")
	f := Error("err", err)
	if f.Key() != "err" || f.Value() != err {
		t.Errorf("error field = %q/%v", f.Key(), f.Value())
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l = l.With(String("component", "render"))
	l.Debug("a")
	l.Info("b", Int("n", 1))
	l.Warn("c")
	l.Error("d", Error("err", nil))
}
