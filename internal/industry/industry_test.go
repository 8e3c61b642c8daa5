package industry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "요양돌봄서비스", Normalize("요양/돌봄 서비스"))
	assert.Equal(t, "제조업", Normalize("제조업 (뿌리산업 포함)"))
	assert.Equal(t, "ict", Normalize(" ICT "))
	assert.Equal(t, "", Normalize("  "))
}

func TestNormalize_DecomposedHangul(t *testing.T) {
	nfd := norm.NFD.String("제조업")
	assert.NotEqual(t, "제조업", nfd)
	assert.Equal(t, "제조업", Normalize(nfd))
}

func TestClassify(t *testing.T) {
	cases := map[string]Key{
		"제조업":        Manufacturing,
		"건설업":        Construction,
		"도소매업":       Retail,
		"숙박음식업":      Hospitality,
		"정보통신업":      ICT,
		"요양/돌봄 서비스":  Care,
		"물류/배송":      Logistics,
		"유흥주점업":      Entertainment,
		"기타":         Other,
		"":           Other,
	}
	for in, want := range cases {
		assert.Equal(t, want, Classify(in), in)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("제조업", "제조업 (뿌리산업)"))
	assert.True(t, Matches("금속 제조업", "제조업"))
	assert.True(t, Matches("물류", "물류/배송"))
	assert.False(t, Matches("건설업", "제조업"))
	assert.False(t, Matches("", "제조업"))
	assert.False(t, Matches("기타", "정보통신업"))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("숙박 음식업", "숙박음식업"))
	assert.False(t, Equal("", ""))
}

func TestExcludes(t *testing.T) {
	assert.True(t, Excludes("유흥주점업", "유흥업"))
	assert.True(t, Excludes("사행성 게임장", "도박업"))
	assert.True(t, Excludes("숙박 음식업", "숙박음식업"))
	assert.False(t, Excludes("제조업", "유흥업"))
	assert.False(t, Excludes("기타", "기타 서비스"))
	assert.False(t, Excludes("", "유흥업"))
}
