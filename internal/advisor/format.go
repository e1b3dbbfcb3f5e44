package advisor

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"propadvisor/pkg/types"
)

// Field is one "label: value" line of a prompt block.
type Field struct {
	Label string
	Value string
}

func formatFields(fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.Label+": "+f.Value)
	}
	return strings.Join(lines, "\n")
}

func formatNumber(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// FormatProperty renders a compact property summary. Price, deposit and rent
// lines appear only when known; extra fields are appended in order.
func FormatProperty(p types.PropertyInfo, extra ...Field) string {
	fields := []Field{
		{"매물 ID", strconv.Itoa(p.PropertyID)},
		{"이름", p.Name},
		{"주소", p.Address},
		{"유형", p.PropertyType},
		{"층수", strconv.Itoa(p.Floor)},
		{"준공연도", strconv.Itoa(p.BuiltYear)},
		{"면적", strconv.Itoa(p.Area)},
	}
	if p.MarketPrice != nil {
		fields = append(fields, Field{"시세", formatNumber(*p.MarketPrice)})
	}
	if p.Deposit != nil {
		fields = append(fields, Field{"보증금", formatNumber(*p.Deposit)})
	}
	if p.MonthlyRent != nil {
		fields = append(fields, Field{"월세", formatNumber(*p.MonthlyRent)})
	}
	return formatFields(append(fields, extra...))
}

// FormatChecklistProperty renders the checklist request in the same layout as
// FormatProperty; area is free text and the move-in date is appended.
func FormatChecklistProperty(r types.ChecklistRequest) string {
	return formatFields([]Field{
		{"매물 ID", strconv.Itoa(r.PropertyID)},
		{"이름", r.Name},
		{"주소", r.Address},
		{"유형", r.PropertyType},
		{"층수", strconv.Itoa(r.Floor)},
		{"준공연도", strconv.Itoa(r.BuildYear)},
		{"면적", r.Area},
		{"입주 가능일", r.AvailableDate},
	})
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// FormatLoanProfile renders a tenant's loan profile.
func FormatLoanProfile(r types.LoanGuideRequest) string {
	return formatFields([]Field{
		{"나이", strconv.Itoa(r.Age)},
		{"세대주 여부", yesNo(r.IsHouseholder, "예", "아니오")},
		{"가족 형태", r.FamilyType},
		{"연소득", formatNumber(r.AnnualSalary)},
		{"월소득", formatNumber(r.MonthlySalary)},
		{"소득 유형", r.IncomeType},
		{"소득 구분", r.IncomeCategory},
		{"임차 지역", r.RentalArea},
		{"주택 유형", r.HouseType},
		{"임대 유형", r.RentalType},
		{"보증금", formatNumber(r.Deposit)},
		{"관리비", formatNumber(r.ManagementFee)},
		{"대출 가능 여부", yesNo(r.AvailableLoan, "가능", "제한")},
		{"신용 등급", r.CreditRating},
		{"희망 대출 유형", r.LoanType},
		{"연체 기록", yesNo(r.OverdueRecord, "있음", "없음")},
		{"임대차계약서 보유", yesNo(r.HasLeaseAgreement, "예", "아니오")},
		{"확정일자/전입신고 완료", yesNo(r.Confirmed, "예", "아니오")},
	})
}

// FormatAttachments labels each uploaded document with its name. Bytes that
// are not valid UTF-8 are dropped.
func FormatAttachments(files []types.Attachment) string {
	if len(files) == 0 {
		return noAttachments
	}
	chunks := make([]string, 0, len(files))
	for _, f := range files {
		if f.ReadErr != nil {
			chunks = append(chunks, "["+f.Filename+"] 파일을 읽을 수 없습니다.")
			continue
		}
		text := string(f.Content)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "")
		}
		chunks = append(chunks, "["+f.Filename+"] 내용:\n"+text)
	}
	return strings.Join(chunks, "\n\n")
}

// FormatGuideLinks lists reference URLs one per line.
func FormatGuideLinks(urls []string) string {
	if len(urls) == 0 {
		return noGuideDocs
	}
	return strings.Join(urls, "\n")
}
