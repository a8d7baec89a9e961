package summary

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/models"
)

type mockGenerator struct {
	response string
	err      error

	gotSystem string
	gotUser   string
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.gotSystem = systemPrompt
	m.gotUser = userPrompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) Name() string { return "mock" }

func sampleData() *models.CollectedData {
	return &models.CollectedData{
		Market: &models.MarketSummary{
			Date:  "2026-08-28",
			KOSPI: &models.IndexData{Name: "코스피", Close: "2,650.12", Change: "22.34", ChangePct: "0.85", Direction: "상승"},
			TopStocks: []models.StockData{
				{Name: "삼성전자", Close: "71,000", ChangePct: "1.50", Direction: "상승"},
				{Name: "SK하이닉스", Close: "180,500", ChangePct: "-2.40", Direction: "하락"},
			},
			KOSPIInvestor: &models.InvestorData{Personal: "-1,234", Foreign: "2,000", Institutional: "-766"},
		},
		Disclosures: []models.Disclosure{
			{CorpName: "현대모비스", ReportName: "주요사항보고서", FilerName: "현대모비스"},
		},
		News: []models.NewsArticle{
			{Title: "코스피 상승 마감", Description: "외국인 매수세에 힘입어 상승했다"},
		},
		StockNews: map[string][]models.NewsArticle{
			"SK하이닉스": {{Title: "SK하이닉스 급락", Description: "차익 실현 매물"}},
		},
	}
}

func TestGenerateBriefingDigestContent(t *testing.T) {
	gen := &mockGenerator{response: "<h2>시장</h2><p>올랐어요</p>"}
	svc := NewService(gen, common.NewSilentLogger())

	html, err := svc.GenerateBriefing(context.Background(), sampleData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<h2>시장</h2><p>올랐어요</p>" {
		t.Errorf("unexpected html: %q", html)
	}

	for _, want := range []string{
		"## 날짜: 2026-08-28",
		"코스피: 종가 2,650.12",
		"## 투자자별 매매동향",
		"개인 -1,234, 외국인 2,000, 기관 -766",
		"- 삼성전자: 71,000원 (상승 1.50%)",
		"### SK하이닉스",
		"[현대모비스] 주요사항보고서 (제출인: 현대모비스)",
		"- 코스피 상승 마감: 외국인 매수세에 힘입어 상승했다",
	} {
		if !strings.Contains(gen.gotUser, want) {
			t.Errorf("digest missing %q\ndigest:\n%s", want, gen.gotUser)
		}
	}
	if !strings.Contains(gen.gotSystem, "섹션 구성") {
		t.Error("system prompt should carry the section layout")
	}
}

func TestGenerateBriefingEmptySections(t *testing.T) {
	gen := &mockGenerator{response: "ok"}
	svc := NewService(gen, common.NewSilentLogger())

	data := &models.CollectedData{Market: &models.MarketSummary{}}
	if _, err := svc.GenerateBriefing(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gen.gotUser, "- 주요 공시 없음") {
		t.Error("empty disclosures should be marked explicitly")
	}
	if !strings.Contains(gen.gotUser, "- 주요 뉴스 없음") {
		t.Error("empty news should be marked explicitly")
	}
	if !strings.Contains(gen.gotUser, "## 날짜: 알 수 없음") {
		t.Error("missing date should fall back to the unknown marker")
	}
}

func TestGenerateBriefingBackendError(t *testing.T) {
	gen := &mockGenerator{err: fmt.Errorf("overloaded")}
	svc := NewService(gen, common.NewSilentLogger())

	if _, err := svc.GenerateBriefing(context.Background(), sampleData()); err == nil {
		t.Fatal("backend errors must propagate")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "<p>hi</p>", "<p>hi</p>"},
		{"full fence", "```html\n<p>hi</p>\n```", "<p>hi</p>"},
		{"bare fence", "```\n<p>hi</p>\n```", "<p>hi</p>"},
		{"leading only", "```html\n<p>hi</p>", "<p>hi</p>"},
		{"trailing only", "<p>hi</p>\n```", "<p>hi</p>"},
		{"fence no newline", "```", ""},
		{"whitespace", "  <p>hi</p>  ", "<p>hi</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.in); got != tc.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
