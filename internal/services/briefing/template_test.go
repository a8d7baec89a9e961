package briefing

import (
	"strings"
	"testing"
)

func TestStyleContentH2(t *testing.T) {
	styled := styleContent("<h2>제목</h2>")
	if strings.Contains(styled, "<h2>") {
		t.Error("h2 should be replaced by a styled table header")
	}
	if !strings.Contains(styled, "제목") {
		t.Error("header text must survive styling")
	}
	if !strings.Contains(styled, "style=") {
		t.Error("styled header must carry inline styles")
	}
}

func TestStyleContentInlinesBasicTags(t *testing.T) {
	styled := styleContent(`<ul><li>항목</li></ul><p>본문</p><strong>강조</strong>`)
	for _, tag := range []string{"<ul style=", "<li style=", "<p style=", "<strong style="} {
		if !strings.Contains(styled, tag) {
			t.Errorf("expected %q in styled output", tag)
		}
	}
}

func TestStyleContentLiWithAttributes(t *testing.T) {
	styled := styleContent(`<li class="x">항목</li>`)
	if strings.Contains(styled, `class="x"`) {
		t.Error("existing li attributes should be replaced by the inline style")
	}
}

func TestRenderEmail(t *testing.T) {
	result := renderEmail("2026년 08월 28일 주식 아침 브리핑", "<h2>시장</h2>")
	if !strings.Contains(strings.ToLower(result), "<html") {
		t.Error("render should return a complete document")
	}
	if strings.Count(result, "2026년 08월 28일 주식 아침 브리핑") < 2 {
		t.Error("title should appear in head and header")
	}
	if !strings.Contains(result, "시장") {
		t.Error("content must be embedded")
	}
	if strings.Contains(result, "%CONTENT%") || strings.Contains(result, "%TITLE%") {
		t.Error("all placeholders must be replaced")
	}
}
