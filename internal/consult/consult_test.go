package consult

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"

	"vitranbakery.vn/bakery-web/internal/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func menuSnapshot(t *testing.T) catalog.Snapshot {
	t.Helper()
	snap, _ := catalog.Normalize([]catalog.RawItem{
		{Name: "Dâu Tây Hồng", Category: "Bánh Kem", ImageFiles: []string{"pink.jpg"}, Folder: "kem"},
		{Name: "Butter Croissant", Category: "Bánh Ngọt", ImageFiles: []string{"1.jpg", "2.jpg"}, Folder: "ngot"},
	}, "images")
	return snap
}

type countingGenerator struct {
	calls atomic.Int32
	reply string
	err   error
	last  Prompt
}

func (g *countingGenerator) Generate(_ context.Context, p Prompt) (string, error) {
	g.calls.Add(1)
	g.last = p
	return g.reply, g.err
}

func TestSubmitResolvesMatchingProduct(t *testing.T) {
	gen := &countingGenerator{reply: `{"productName":"Dâu Tây Hồng","reasoning":"Sắc hồng ngọt ngào cho bé."}`}
	c := New(gen)
	snap := menuSnapshot(t)

	res, err := c.Submit(context.Background(), Request{SessionID: "s1", Input: "bánh sinh nhật màu hồng"}, snap)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, res.State)
	require.NotEmpty(t, res.ID)
	require.NotNil(t, res.Product)

	want, ok := snap.ByName("Dâu Tây Hồng")
	require.True(t, ok)
	require.Equal(t, want, *res.Product)
	require.Equal(t, "Sắc hồng ngọt ngào cho bé.", res.Recommendation.Reasoning)

	require.Contains(t, gen.last.Contents, "[Dâu Tây Hồng, Butter Croissant]")
	require.Contains(t, gen.last.Contents, `"bánh sinh nhật màu hồng"`)
	require.Contains(t, gen.last.SystemInstruction, "Chỉ được phép gợi ý các sản phẩm có trong danh sách")
	require.Equal(t, StateIdle, c.State("s1"), "guard is released after completion")
}

func TestSubmitUnknownProductKeepsReasoning(t *testing.T) {
	gen := &countingGenerator{reply: `{"productName":"Bánh Không Tồn Tại","reasoning":"Một chiếc bánh trong mơ."}`}
	res, err := New(gen).Submit(context.Background(), Request{SessionID: "s1", Input: "bánh lạ"}, menuSnapshot(t))
	require.NoError(t, err)
	require.Equal(t, StateSuccess, res.State)
	require.Nil(t, res.Product)
	require.Equal(t, "Một chiếc bánh trong mơ.", res.Recommendation.Reasoning)
	require.Equal(t, "Bánh Không Tồn Tại", res.Recommendation.ProductName)
}

func TestSubmitBlankInputMakesNoCall(t *testing.T) {
	gen := &countingGenerator{reply: `{}`}
	c := New(gen)
	for _, in := range []string{"", "   ", "\n\t"} {
		res, err := c.Submit(context.Background(), Request{SessionID: "s1", Input: in}, menuSnapshot(t))
		require.ErrorIs(t, err, ErrNotReady)
		require.Equal(t, StateIdle, res.State)
	}
	require.Zero(t, gen.calls.Load())
}

func TestSubmitEmptyCatalogMakesNoCall(t *testing.T) {
	gen := &countingGenerator{}
	_, err := New(gen).Submit(context.Background(), Request{Input: "bánh"}, catalog.Snapshot{})
	require.ErrorIs(t, err, ErrNotReady)
	require.Zero(t, gen.calls.Load())
}

func TestSubmitMalformedResponses(t *testing.T) {
	for _, reply := range []string{
		"Xin lỗi, tôi không hiểu.",
		`{"productName":"Dâu Tây Hồng"}`,
		`{"reasoning":"thiếu tên"}`,
		`{"productName":"  ","reasoning":"x"}`,
		`[1,2,3]`,
	} {
		gen := &countingGenerator{reply: reply}
		res, err := New(gen).Submit(context.Background(), Request{Input: "bánh"}, menuSnapshot(t))
		require.ErrorIs(t, err, ErrMalformedResponse, reply)
		require.Equal(t, StateFailure, res.State)
		require.Nil(t, res.Product)
	}
}

func TestSubmitGeneratorErrorIsNotRetried(t *testing.T) {
	gen := &countingGenerator{err: errors.New("quota exceeded")}
	res, err := New(gen).Submit(context.Background(), Request{Input: "bánh"}, menuSnapshot(t))
	require.Error(t, err)
	require.Equal(t, StateFailure, res.State)
	require.Equal(t, int32(1), gen.calls.Load())
}

func TestSubmitSingleFlightPerSession(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	gen := GeneratorFunc(func(ctx context.Context, p Prompt) (string, error) {
		close(started)
		<-unblock
		return `{"productName":"Butter Croissant","reasoning":"Giòn tan."}`, nil
	})
	c := New(gen)
	snap := menuSnapshot(t)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), Request{SessionID: "s1", Input: "bánh giòn"}, snap)
		done <- err
	}()
	<-started
	require.Equal(t, StateSubmitting, c.State("s1"))

	res, err := c.Submit(context.Background(), Request{SessionID: "s1", Input: "bánh khác"}, snap)
	require.ErrorIs(t, err, ErrBusy)
	require.Equal(t, StateSubmitting, res.State)

	close(unblock)
	require.NoError(t, <-done)
	require.Equal(t, StateIdle, c.State("s1"))
}

func TestSubmitHonoursCancellation(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, p Prompt) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := New(gen).Submit(ctx, Request{SessionID: "gone", Input: "bánh"}, menuSnapshot(t))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StateFailure, res.State)
}

func TestDisabledConsultant(t *testing.T) {
	c := New(nil)
	require.False(t, c.Enabled())
	_, err := c.Submit(context.Background(), Request{Input: "bánh"}, menuSnapshot(t))
	require.ErrorIs(t, err, ErrDisabled)
}

func TestInputIsClamped(t *testing.T) {
	gen := &countingGenerator{reply: `{"productName":"Butter Croissant","reasoning":"ok"}`}
	long := strings.Repeat("á", MaxInputRunes+50)
	_, err := New(gen).Submit(context.Background(), Request{Input: long}, menuSnapshot(t))
	require.NoError(t, err)
	require.Contains(t, gen.last.Contents, strings.Repeat("á", MaxInputRunes)+`"`)
	require.NotContains(t, gen.last.Contents, strings.Repeat("á", MaxInputRunes+1))
}

func TestParseRecommendationStripsFence(t *testing.T) {
	rec, err := ParseRecommendation("```json\n{\"productName\":\"A\",\"reasoning\":\"B\"}\n```")
	require.NoError(t, err)
	require.Equal(t, Recommendation{ProductName: "A", Reasoning: "B"}, rec)
}

func TestResponseSchemaRequiresBothFields(t *testing.T) {
	s := responseSchema(BuildPrompt([]string{"A"}, "x").Fields)
	require.Equal(t, genai.TypeObject, s.Type)
	require.Equal(t, []string{FieldProductName, FieldReasoning}, s.Required)
	require.Equal(t, genai.TypeString, s.Properties[FieldProductName].Type)
	require.Equal(t, genai.TypeString, s.Properties[FieldReasoning].Type)
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), " ", "")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
