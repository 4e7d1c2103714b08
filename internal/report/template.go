package report

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin: 0; padding: 0; background: #f3f4f6; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;">
<table width="100%" cellpadding="0" cellspacing="0" style="background: #f3f4f6; padding: 24px 0;">
<tr><td align="center">
<table width="600" cellpadding="0" cellspacing="0" style="background: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">

    <!-- Header -->
    <tr>
        <td style="background: linear-gradient(135deg, #4f46e5, #7c3aed); padding: 28px 24px; text-align: center;">
            <div style="color: #ffffff; font-size: 22px; font-weight: 700;">
                RecSys &amp; LLM Industry Papers
            </div>
            <div style="color: #c4b5fd; font-size: 14px; margin-top: 4px;">
                {{.Date}} &middot; Since {{.Since}}
            </div>
        </td>
    </tr>

    <!-- Stats bar -->
    <tr>
        <td style="padding: 14px 20px; background: #fafafa; border-bottom: 1px solid #e5e7eb;">
            <table width="100%"><tr>
                <td style="color: #6b7280; font-size: 13px;">
                    <strong style="color: #111827; font-size: 20px;">{{.IndustryCount}}</strong> industry papers
                </td>
                <td style="color: #6b7280; font-size: 13px; text-align: right;">
                    out of <strong>{{.TotalCount}}</strong> total papers
                </td>
            </tr></table>
        </td>
    </tr>

    <!-- Papers -->
{{range .Papers}}
    <tr>
        <td style="padding: 16px 20px; border-bottom: 1px solid #e5e7eb;">
            <div style="margin-bottom: 6px;">
                <span style="background: #dbeafe; color: #1e40af; font-size: 11px; padding: 2px 8px; border-radius: 10px; font-weight: 600;">#{{.Index}}</span>
{{if .Companies}}                <span style="background: #fef3c7; color: #92400e; font-size: 11px; padding: 2px 8px; border-radius: 10px; margin-left: 4px; font-weight: 600;">{{.Companies}}</span>
{{end}}            </div>
            <a href="{{.URL}}" style="color: #1d4ed8; text-decoration: none; font-size: 16px; font-weight: 600; line-height: 1.4;">{{.Title}}</a>
            <div style="color: #6b7280; font-size: 13px; margin-top: 4px;">{{.Authors}}</div>
            <div style="color: #9ca3af; font-size: 12px; margin-top: 2px;">{{.Published}}{{if .Categories}} &middot; {{.Categories}}{{end}}</div>
{{if .Summary}}            <div style="color: #374151; font-size: 14px; margin-top: 8px; line-height: 1.5;">{{.Summary}}</div>
{{end}}            <div style="margin-top: 8px;">
                <a href="{{.URL}}" style="color: #6366f1; font-size: 12px; text-decoration: none; margin-right: 12px;">Abstract</a>
                <a href="{{.PDFURL}}" style="color: #6366f1; font-size: 12px; text-decoration: none;">PDF</a>
            </div>
        </td>
    </tr>
{{else}}
    <tr>
        <td style="padding: 32px 20px; text-align: center; color: #9ca3af;">
            No industry papers found in this period.
        </td>
    </tr>
{{end}}

    <!-- Footer -->
    <tr>
        <td style="padding: 20px; text-align: center; color: #9ca3af; font-size: 12px; border-top: 1px solid #e5e7eb;">
            Generated with {{.CallsUsed}}/{{.CallsMax}} LLM calls &middot;
            <a href="https://arxiv.org/list/cs.IR/recent" style="color: #6366f1; text-decoration: none;">Browse cs.IR</a>
            &middot;
            <a href="https://arxiv.org/list/cs.CL/recent" style="color: #6366f1; text-decoration: none;">Browse cs.CL</a>
        </td>
    </tr>

</table>
</td></tr></table>
</body>
</html>
`
