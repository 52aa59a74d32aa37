package admin

// Inline template sources for the admin back office. The portal ships as a
// single binary with no asset pipeline, so the markup lives here.

func templateSources() map[string]string {
	return map[string]string{
		"layout_head.tmpl":     layoutHeadTemplate,
		"layout_nav.tmpl":      layoutNavTemplate,
		"dashboard.tmpl":       dashboardTemplate,
		"businesses.tmpl":      businessesTemplate,
		"business_detail.tmpl": businessDetailTemplate,
		"reports.tmpl":         reportsTemplate,
		"similarity.tmpl":      similarityTemplate,
		"analytics.tmpl":       analyticsTemplate,
		"import.tmpl":          importTemplate,
		"unauthorized.tmpl":    unauthorizedTemplate,
	}
}

const layoutHeadTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.}} - Business Registry</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f7fa; }
        .container { max-width: 1300px; margin: 0 auto; padding: 20px; }
        .header { background: #1f3a5f; color: white; padding: 18px 0; margin-bottom: 24px; }
        .header h1 { text-align: center; font-size: 1.9em; }
        .nav { display: flex; gap: 14px; margin-bottom: 24px; flex-wrap: wrap; }
        .nav a { padding: 9px 18px; background: white; color: #1f3a5f; text-decoration: none; border-radius: 5px; }
        .nav a.active, .nav a:hover { background: #2f6fb2; color: white; }
        .section { background: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
        .filters form { display: flex; gap: 12px; align-items: center; flex-wrap: wrap; }
        .filters input, .filters select { padding: 8px 12px; border: 1px solid #ddd; border-radius: 4px; }
        .btn { display: inline-block; padding: 8px 16px; background: #2f6fb2; color: white; text-decoration: none; border-radius: 4px; border: none; cursor: pointer; }
        .btn:hover { background: #265a91; }
        .btn-sm { padding: 4px 8px; font-size: 12px; }
        .btn-success { background: #27ae60; }
        .btn-danger { background: #e74c3c; }
        .btn-warning { background: #f39c12; }
        .table { width: 100%; border-collapse: collapse; }
        .table th, .table td { padding: 11px; text-align: left; border-bottom: 1px solid #ddd; }
        .table th { background: #f8f9fa; font-weight: 600; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 14px; margin-bottom: 24px; }
        .stat { background: white; border-radius: 8px; padding: 16px; text-align: center; }
        .stat .num { font-size: 2em; font-weight: 700; color: #1f3a5f; }
        .stat .label { color: #666; font-size: 0.9em; }
        .badge { padding: 3px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; }
        .status-pending { background: #fff3cd; color: #856404; }
        .status-verified { background: #d4edda; color: #155724; }
        .status-suspended { background: #f8d7da; color: #721c24; }
        .status-rejected { background: #e2e3e5; color: #383d41; }
        .alert-card { border-left: 4px solid #e74c3c; background: #fdf3f2; padding: 12px; margin-bottom: 10px; border-radius: 4px; }
        .alert-card.risk-medium { border-left-color: #f39c12; background: #fdf8ef; }
        .risk-high { color: #c0392b; font-weight: 700; }
        .risk-medium { color: #d68910; font-weight: 600; }
        .risk-low { color: #666; }
        .muted { color: #888; font-size: 0.85em; }
        .pagination { display: flex; gap: 6px; margin-top: 14px; }
        .pagination a { padding: 6px 11px; background: white; border: 1px solid #ddd; border-radius: 4px; color: #1f3a5f; text-decoration: none; }
        .pagination a.current { background: #2f6fb2; color: white; }
    </style>
</head>
<body>
<div class="header"><h1>Business Verification Portal</h1></div>
<div class="container">`

const layoutNavTemplate = `<div class="nav">
    <a href="{{basePath}}admin">Dashboard</a>
    <a href="{{basePath}}admin/businesses">Businesses</a>
    <a href="{{basePath}}admin/reports">Fraud Reports</a>
    <a href="{{basePath}}admin/similarity">Similarity Review</a>
    <a href="{{basePath}}admin/analytics">Analytics</a>
    <a href="{{basePath}}admin/import">Import / Export</a>
</div>`

const dashboardTemplate = `{{template "layout_head.tmpl" "Dashboard"}}
{{template "layout_nav.tmpl"}}

<div class="stats">
    <div class="stat"><div class="num">{{.Stats.Pending}}</div><div class="label">Pending</div></div>
    <div class="stat"><div class="num">{{.Stats.Verified}}</div><div class="label">Verified</div></div>
    <div class="stat"><div class="num">{{.Stats.Suspended}}</div><div class="label">Suspended</div></div>
    <div class="stat"><div class="num">{{.Stats.Rejected}}</div><div class="label">Rejected</div></div>
    <div class="stat"><div class="num">{{.OpenReports}}</div><div class="label">Open Reports</div></div>
</div>

<div class="section">
    <h2>Name Similarity Alerts</h2>
    <p class="muted">Latest scan: {{fmtTime .AlertsAt}} (refreshes every {{.PollSeconds}}s)</p>
    {{if .Alerts}}
        {{range .Alerts}}
        <div class="alert-card {{riskClass .Risk}}">
            <span class="{{riskClass .Risk}}">{{.Label}}</span><br>
            <a href="{{basePath}}admin/businesses/{{.First.ID}}">{{.First.Name}}</a> ({{.First.RegistrationNumber}})
            &harr;
            <a href="{{basePath}}admin/businesses/{{.Second.ID}}">{{.Second.Name}}</a> ({{.Second.RegistrationNumber}})
        </div>
        {{end}}
    {{else}}
        <p>No similarity alerts in the latest scan.</p>
    {{end}}
</div>

<div class="section">
    <h2>Recently Registered</h2>
    <table class="table">
        <tr><th>Name</th><th>Registration #</th><th>Status</th><th>City</th><th>Registered</th></tr>
        {{range .Recent}}
        <tr>
            <td><a href="{{basePath}}admin/businesses/{{.ID}}">{{.Name}}</a></td>
            <td>{{.RegistrationNumber}}</td>
            <td><span class="badge status-{{.Status}}">{{.Status}}</span></td>
            <td>{{strVal .City}}</td>
            <td>{{fmtTime .CreatedAt}}</td>
        </tr>
        {{end}}
    </table>
</div>
</div></body></html>`

const businessesTemplate = `{{template "layout_head.tmpl" "Businesses"}}
{{template "layout_nav.tmpl"}}

<div class="section filters">
    <form method="GET" action="{{basePath}}admin/businesses">
        <input type="text" name="search" placeholder="Name, registration # or city" value="{{.Search}}">
        <select name="status">
            <option value="">All statuses</option>
            <option value="pending" {{if eq .Status "pending"}}selected{{end}}>Pending</option>
            <option value="verified" {{if eq .Status "verified"}}selected{{end}}>Verified</option>
            <option value="suspended" {{if eq .Status "suspended"}}selected{{end}}>Suspended</option>
            <option value="rejected" {{if eq .Status "rejected"}}selected{{end}}>Rejected</option>
        </select>
        <button type="submit" class="btn">Filter</button>
    </form>
</div>

<div class="section">
    <h2>{{.Total}} businesses</h2>
    <table class="table">
        <tr><th>Name</th><th>Registration #</th><th>Status</th><th>City</th><th>Owner</th><th>Registered</th></tr>
        {{range .Businesses}}
        <tr>
            <td><a href="{{basePath}}admin/businesses/{{.ID}}">{{.Name}}</a></td>
            <td>{{.RegistrationNumber}}</td>
            <td><span class="badge status-{{.Status}}">{{.Status}}</span></td>
            <td>{{strVal .City}}</td>
            <td>{{strVal .OwnerName}}</td>
            <td>{{fmtTime .CreatedAt}}</td>
        </tr>
        {{end}}
    </table>
    {{if gt .TotalPages 1}}
    <div class="pagination">
        {{$p := .Page}}{{$s := .Search}}{{$st := .Status}}
        {{range seq 1 .TotalPages}}
        <a href="{{basePath}}admin/businesses?page={{.}}&search={{$s}}&status={{$st}}" {{if eq . $p}}class="current"{{end}}>{{.}}</a>
        {{end}}
    </div>
    {{end}}
</div>
</div></body></html>`

const businessDetailTemplate = `{{template "layout_head.tmpl" .Business.Name}}
{{template "layout_nav.tmpl"}}

<div class="section">
    <h2>{{.Business.Name}} <span class="badge status-{{.Business.Status}}">{{.Business.Status}}</span></h2>
    <table class="table">
        <tr><th>Registration #</th><td>{{.Business.RegistrationNumber}}</td></tr>
        <tr><th>Category</th><td>{{strVal .Business.Category}}</td></tr>
        <tr><th>Address</th><td>{{strVal .Business.Address}}, {{strVal .Business.City}} {{strVal .Business.Region}}</td></tr>
        <tr><th>Contact</th><td>{{strVal .Business.Phone}} {{strVal .Business.Email}} {{strVal .Business.Website}}</td></tr>
        <tr><th>Owner</th><td>{{strVal .Business.OwnerName}}</td></tr>
        <tr><th>Employees</th><td>{{intVal .Business.EmployeeCount 0}}</td></tr>
        <tr><th>Registered</th><td>{{fmtTime .Business.CreatedAt}}</td></tr>
        <tr><th>Admin note</th><td>{{strVal .Business.AdminNote}}</td></tr>
    </table>
</div>

<div class="section">
    <h2>Actions</h2>
    <form method="POST" action="{{basePath}}admin/businesses/{{.Business.ID}}/status">
        <input type="text" name="note" placeholder="Admin note" style="padding:8px;border:1px solid #ddd;border-radius:4px;width:320px;">
        <button class="btn btn-success" name="status" value="verified">Verify</button>
        <button class="btn btn-warning" name="status" value="suspended">Suspend</button>
        <button class="btn btn-danger" name="status" value="rejected">Reject</button>
    </form>
    <br>
    <form method="POST" action="{{basePath}}admin/businesses/{{.Business.ID}}/inspections">
        <input type="text" name="inspector" placeholder="Inspector name" style="padding:8px;border:1px solid #ddd;border-radius:4px;">
        <input type="date" name="scheduled_for" style="padding:8px;border:1px solid #ddd;border-radius:4px;">
        <button class="btn" type="submit">Schedule Inspection</button>
    </form>
</div>

<div class="section">
    <h2>Fraud Reports ({{len .Reports}})</h2>
    {{if .Reports}}
    <table class="table">
        <tr><th>Ref</th><th>Filed</th><th>Status</th><th>Priority</th><th>Summary</th><th></th></tr>
        {{range .Reports}}
        <tr>
            <td>{{.Reference}}</td>
            <td>{{fmtTime .CreatedAt}}</td>
            <td>{{.Status}}</td>
            <td>{{intVal .TriagePriority 0}}</td>
            <td>{{if .TriageSummary}}{{strVal .TriageSummary}}{{else}}{{.Details}}{{end}}</td>
            <td>
                {{if eq .Status "open"}}
                <form method="POST" action="{{basePath}}admin/reports/{{.ID}}/resolve">
                    <input type="hidden" name="business_id" value="{{.BusinessID}}">
                    <button class="btn btn-sm btn-success" name="resolution" value="resolved">Resolve</button>
                    <button class="btn btn-sm" name="resolution" value="dismissed">Dismiss</button>
                    <label><input type="checkbox" name="suspend" value="1"> suspend business</label>
                </form>
                {{end}}
            </td>
        </tr>
        {{end}}
    </table>
    {{else}}<p>No reports filed.</p>{{end}}
</div>

<div class="section">
    <h2>Inspections ({{len .Inspections}})</h2>
    {{if .Inspections}}
    <table class="table">
        <tr><th>Inspector</th><th>Scheduled</th><th>Outcome</th><th>Verified address</th><th></th></tr>
        {{range .Inspections}}
        <tr>
            <td>{{.Inspector}}</td>
            <td>{{fmtTime .ScheduledFor}}</td>
            <td>{{.Outcome}}</td>
            <td>{{strVal .VerifiedAddress}}</td>
            <td>
                {{if eq .Outcome "scheduled"}}
                <form method="POST" action="{{basePath}}admin/inspections/{{.ID}}/complete">
                    <input type="hidden" name="business_id" value="{{.BusinessID}}">
                    <button class="btn btn-sm btn-success" name="outcome" value="passed">Passed</button>
                    <button class="btn btn-sm btn-danger" name="outcome" value="failed">Failed</button>
                    <button class="btn btn-sm" name="outcome" value="no_show">No-show</button>
                </form>
                {{end}}
            </td>
        </tr>
        {{end}}
    </table>
    {{else}}<p>No inspections.</p>{{end}}
</div>
</div></body></html>`

const reportsTemplate = `{{template "layout_head.tmpl" "Fraud Reports"}}
{{template "layout_nav.tmpl"}}

<div class="section filters">
    <form method="GET" action="{{basePath}}admin/reports">
        <select name="status">
            <option value="">All</option>
            <option value="open" {{if eq .Status "open"}}selected{{end}}>Open</option>
            <option value="resolved" {{if eq .Status "resolved"}}selected{{end}}>Resolved</option>
            <option value="dismissed" {{if eq .Status "dismissed"}}selected{{end}}>Dismissed</option>
        </select>
        <button type="submit" class="btn">Filter</button>
    </form>
</div>

<div class="section">
    <h2>Reports</h2>
    <table class="table">
        <tr><th>Ref</th><th>Business</th><th>Filed</th><th>Status</th><th>Priority</th><th>Summary</th></tr>
        {{range .Reports}}
        <tr>
            <td>{{.Reference}}</td>
            <td><a href="{{basePath}}admin/businesses/{{.BusinessID}}">{{.BusinessName}}</a></td>
            <td>{{fmtTime .CreatedAt}}</td>
            <td>{{.Status}}</td>
            <td>{{intVal .TriagePriority 0}}</td>
            <td>{{if .TriageSummary}}{{strVal .TriageSummary}}{{else}}{{.Details}}{{end}}</td>
        </tr>
        {{end}}
    </table>
</div>
</div></body></html>`

const similarityTemplate = `{{template "layout_head.tmpl" "Similarity Review"}}
{{template "layout_nav.tmpl"}}

<div class="section filters">
    <form method="GET" action="{{basePath}}admin/similarity">
        <input type="text" name="q" placeholder="Filter by business name" value="{{.Query}}">
        <button type="submit" class="btn">Filter</button>
    </form>
</div>

<div class="section">
    <h2>{{len .Pairs}} flagged pairs{{if .Query}} matching "{{.Query}}"{{end}}</h2>
    <p class="muted">Scanned {{.Scanned}} records ordered by name; showing pairs above the similarity threshold.</p>
    <table class="table">
        <tr><th>Risk</th><th>Score</th><th>Business A</th><th>Business B</th></tr>
        {{range .Pairs}}
        <tr>
            <td><span class="{{riskClass .Risk}}">{{.Label}}</span></td>
            <td>{{pct .Score}}%</td>
            <td><a href="{{basePath}}admin/businesses/{{.First.ID}}">{{.First.Name}}</a> <span class="muted">{{.First.RegistrationNumber}}</span></td>
            <td><a href="{{basePath}}admin/businesses/{{.Second.ID}}">{{.Second.Name}}</a> <span class="muted">{{.Second.RegistrationNumber}}</span></td>
        </tr>
        {{end}}
    </table>
</div>
</div></body></html>`

const analyticsTemplate = `{{template "layout_head.tmpl" "Analytics"}}
{{template "layout_nav.tmpl"}}

<div class="stats">
    <div class="stat"><div class="num">{{.BusinessStats.Total}}</div><div class="label">Businesses</div></div>
    <div class="stat"><div class="num">{{.BusinessStats.Verified}}</div><div class="label">Verified</div></div>
    <div class="stat"><div class="num">{{.ReportStats.Total}}</div><div class="label">Reports</div></div>
    <div class="stat"><div class="num">{{.ReportStats.Open}}</div><div class="label">Open Reports</div></div>
</div>

<div class="section">
    <h2>Triage Usage</h2>
    <table class="table">
        <tr><th>Requests</th><td>{{.TriageRequests}}</td></tr>
        <tr><th>Tokens</th><td>{{.TriageTokens}}</td></tr>
        <tr><th>Estimated cost (USD)</th><td>{{printf "%.4f" .TriageCostUSD}}</td></tr>
    </table>
</div>
</div></body></html>`

const importTemplate = `{{template "layout_head.tmpl" "Import / Export"}}
{{template "layout_nav.tmpl"}}

<div class="section">
    <h2>Import businesses (CSV)</h2>
    <form method="POST" action="{{basePath}}admin/import" enctype="multipart/form-data">
        <input type="file" name="file" accept=".csv">
        <button type="submit" class="btn">Import</button>
    </form>
    {{if .Imported}}<p>Imported {{.Imported}} businesses.</p>{{end}}
    {{if .RowErrors}}
    <h3>Rejected rows</h3>
    <table class="table">
        <tr><th>Line</th><th>Reason</th></tr>
        {{range .RowErrors}}<tr><td>{{.Line}}</td><td>{{.Reason}}</td></tr>{{end}}
    </table>
    {{end}}
</div>

<div class="section">
    <h2>Export</h2>
    <a class="btn" href="{{basePath}}admin/export">Download registry CSV</a>
</div>
</div></body></html>`

const unauthorizedTemplate = `{{template "layout_head.tmpl" "Unauthorized"}}
<div class="section">
    <h2>Access denied</h2>
    <p>Your address <strong>{{.IP}}</strong> is not mapped to a registry officer.</p>
    <p class="muted">Contact the portal administrator to be added to admins.yaml.</p>
</div>
</div></body></html>`
