package uri

import (
	"context"
	"testing"

	"github.com/nodel-go/nodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_SchemeHostPathQueryFragment(t *testing.T) {
	p, err := Parse("file://localhost/a/b?mode=ro#frag")
	require.NoError(t, err)
	assert.Equal(t, "file", p.Scheme)
	assert.Equal(t, "localhost", p.Host)
	assert.Equal(t, "/a/b", p.Path)
	assert.Equal(t, "ro", p.Query["mode"])
	assert.Equal(t, "frag", p.Fragment)
}

func Test_Parse_MissingScheme(t *testing.T) {
	_, err := Parse("/just/a/path")
	assert.Error(t, err)
}

type fakeSource struct {
	configured Parts
}

func (f *fakeSource) SourceKind() nodel.SourceKind { return nodel.SourceComplete }
func (f *fakeSource) Origin() nodel.Origin         { return nodel.OriginSource }
func (f *fakeSource) Mode() nodel.Mode             { return nodel.ModeRead }
func (f *fakeSource) Multilevel() bool             { return false }
func (f *fakeSource) ThrowOnError() nodel.ErrFlags { return 0 }
func (f *fakeSource) ProbeType(ctx context.Context) (nodel.Kind, error) {
	return nodel.KindOMap, nil
}
func (f *fakeSource) ReadAll(ctx context.Context, target *nodel.Value) error { return nil }
func (f *fakeSource) ReadKey(ctx context.Context, target *nodel.Value, key nodel.Key) (nodel.Value, error) {
	return nodel.Nil, nil
}
func (f *fakeSource) WriteAll(ctx context.Context, target *nodel.Value, cache *nodel.Value) error {
	return nil
}
func (f *fakeSource) WriteKey(ctx context.Context, target *nodel.Value, key nodel.Key, val nodel.Value) error {
	return nil
}
func (f *fakeSource) Commit(ctx context.Context, target *nodel.Value, cache *nodel.Value, deleted []nodel.Key) error {
	return nil
}
func (f *fakeSource) KeyIter(ctx context.Context, sl *nodel.Slice) (nodel.KeyIterator, error) {
	return nil, nil
}
func (f *fakeSource) ValueIter(ctx context.Context, sl *nodel.Slice) (nodel.ValueIterator, error) {
	return nil, nil
}
func (f *fakeSource) ItemIter(ctx context.Context, sl *nodel.Slice) (nodel.ItemIterator, error) {
	return nil, nil
}
func (f *fakeSource) NewInstance(target *nodel.Value, origin nodel.Origin) (nodel.DataSource, error) {
	return nil, nil
}
func (f *fakeSource) Configure(parts Parts) error {
	f.configured = parts
	return nil
}
func (f *fakeSource) FreeResources() error { return nil }

func Test_Bind_ResolvesRegisteredScheme(t *testing.T) {
	Register("fake", func() nodel.DataSource { return &fakeSource{} })
	v, err := Bind("fake://host/path")
	require.NoError(t, err)
	assert.True(t, v.IsContainer(context.Background()))
}

func Test_Bind_UnregisteredScheme(t *testing.T) {
	_, err := Bind("nosuchscheme://x")
	assert.Error(t, err)
}
