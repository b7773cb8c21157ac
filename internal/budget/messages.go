package budget

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgBudgetValid = "✅ 사업비가 정확합니다!"
	msgSheetValid  = "✅ 사업비 검증 완료! 모든 금액이 정확합니다."
)

// newPrinter returns a Korean printer; %d verbs render with thousands separators.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.Korean)
}

func shortfallMessage(p *message.Printer, difference, correctSelf int64) string {
	return p.Sprintf("❌ 오류: 총 %d천원이 부족합니다. 자부담을 %d천원으로 수정하세요.", difference, correctSelf)
}

func excessMessage(p *message.Printer, difference, correctSelf int64) string {
	return p.Sprintf("❌ 오류: 총 %d천원이 초과되었습니다. 자부담을 %d천원으로 수정하세요.", abs(difference), correctSelf)
}

func totalMismatchMessage(p *message.Printer, claimed, aggregated, difference int64) string {
	direction := "초과"
	if difference > 0 {
		direction = "부족"
	}
	return p.Sprintf("❌ 총사업비 불일치!\n\n입력한 총사업비: %d천원\n엑셀 합계: %d천원\n차이: %d천원 %s",
		claimed, aggregated, abs(difference), direction)
}

func componentMismatchMessage(p *message.Printer, claimed Funding, sheet SheetTotals) string {
	return "⚠️ 보조금/자부담 비율이 일치하지 않습니다.\n\n" +
		p.Sprintf("도비: %d (입력) vs %d (엑셀)\n", claimed.Provincial, sheet.Provincial) +
		p.Sprintf("시군비: %d (입력) vs %d (엑셀)\n", claimed.City, sheet.City) +
		p.Sprintf("자부담: %d (입력) vs %d (엑셀)", claimed.Self, sheet.Self)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
