package briefing

import (
	"regexp"
	"strings"
)

// Dark-theme email shell. The generated content is injected after the
// inline-styling pass; mail clients ignore <style> blocks so everything
// the reader sees is inlined.
const emailShell = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%TITLE%</title>
</head>
<body style="margin: 0; padding: 0; background-color: #101013;">
<table cellpadding="0" cellspacing="0" border="0" width="100%" style="background-color: #101013;">
<tr><td align="center" style="padding: 32px 16px;">
<table cellpadding="0" cellspacing="0" border="0" width="600" style="max-width: 600px; width: 100%;">
<tr><td style="padding-bottom: 24px;">
<div style="font-size: 13px; font-weight: 600; color: #3182F6; letter-spacing: 2px;">BRIEF</div>
<div style="font-size: 21px; font-weight: 700; color: #FFFFFF; padding-top: 8px; line-height: 1.4;">%TITLE%</div>
</td></tr>
<tr><td style="background-color: #17171C; border-radius: 16px; padding: 28px 24px;">
%CONTENT%
</td></tr>
<tr><td style="padding-top: 24px; text-align: center;">
<div style="font-size: 12px; color: rgba(255,255,255,0.35); line-height: 1.8;">
매일 아침 전해드리는 주식 브리핑이에요.<br>
더 이상 받고 싶지 않으시면 수신 거부를 요청해 주세요.
</div>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`

var (
	h2Pattern = regexp.MustCompile(`<h2>(.*?)</h2>`)
	liPattern = regexp.MustCompile(`<li(?:\s[^>]*)?>`)
	pPattern  = regexp.MustCompile(`<p(?:\s[^>]*)?>`)
)

// renderEmail wraps styled briefing content in the email shell.
func renderEmail(title, contentHTML string) string {
	html := strings.ReplaceAll(emailShell, "%TITLE%", title)
	return strings.Replace(html, "%CONTENT%", styleContent(contentHTML), 1)
}

// styleContent applies dark-theme inline styles to the basic tags the
// generator is allowed to emit.
func styleContent(html string) string {
	html = h2Pattern.ReplaceAllString(html,
		`<table cellpadding="0" cellspacing="0" border="0" width="100%" style="margin-top: 28px; margin-bottom: 14px;">`+
			`<tr><td style="width: 4px; background-color: #3182F6; border-radius: 2px;"></td>`+
			`<td style="padding-left: 12px; font-size: 17px; font-weight: 700; color: #FFFFFF; line-height: 1.4;">$1</td>`+
			`</tr></table>`)
	html = strings.ReplaceAll(html, "<ul>", `<ul style="list-style: none; padding: 0; margin: 0 0 8px 0;">`)
	html = liPattern.ReplaceAllString(html,
		`<li style="background-color: rgba(255,255,255,0.06); border: 1px solid rgba(255,255,255,0.05); border-radius: 12px; padding: 14px 16px; margin-bottom: 10px; font-size: 14px; line-height: 1.75; color: rgba(255,255,255,0.75);">`)
	html = strings.ReplaceAll(html, "<strong>", `<strong style="color: #FFFFFF; font-weight: 700;">`)
	html = pPattern.ReplaceAllString(html,
		`<p style="font-size: 14px; line-height: 1.75; color: rgba(255,255,255,0.65); margin: 0 0 12px 0;">`)
	return html
}
