package api

import "github.com/procurecontract/session-service/internal/core/domain"

// Views is the navigation table of the procurement application.
var Views = []domain.Route{
	{Name: "login", Path: "/login", Section: "auth", Access: domain.AccessGuestOnly},
	{Name: "signup", Path: "/signup", Section: "auth", Access: domain.AccessGuestOnly},

	{Name: "dashboard", Path: "/", Section: "dashboard", Access: domain.AccessProtected},
	{Name: "contracts", Path: "/contracts", Section: "contracts", Access: domain.AccessProtected},
	{Name: "contract_detail", Path: "/contracts/:id", Section: "contracts", Access: domain.AccessProtected},
	{Name: "playbooks", Path: "/playbooks", Section: "playbooks", Access: domain.AccessProtected},
	{Name: "search", Path: "/search", Section: "search", Access: domain.AccessProtected},
	{Name: "reports", Path: "/reports", Section: "reports", Access: domain.AccessProtected},

	{Name: "procurement", Path: "/procurement", Section: "procurement", Access: domain.AccessProtected},
	{Name: "procurement_upload", Path: "/procurement/upload", Section: "procurement", Access: domain.AccessProtected},
	{Name: "procurement_process", Path: "/procurement/process", Section: "procurement", Access: domain.AccessProtected},
	{Name: "procurement_search", Path: "/procurement/search", Section: "procurement", Access: domain.AccessProtected},
	{Name: "procurement_document", Path: "/procurement/documents/:id", Section: "procurement", Access: domain.AccessProtected},

	{Name: "settings", Path: "/settings", Section: "settings", Access: domain.AccessProtected},
	{Name: "settings_profile", Path: "/settings/profile", Section: "settings", Access: domain.AccessProtected},
	{Name: "settings_integrations", Path: "/settings/integrations", Section: "settings", Access: domain.AccessProtected},
	{Name: "settings_approvals", Path: "/settings/approvals", Section: "settings", Access: domain.AccessProtected},
}

// adminSessionsRoute gates the session listing like any protected view;
// role checks happen after the guard admits it.
var adminSessionsRoute = domain.Route{
	Name:    "admin_sessions",
	Path:    "/admin/sessions",
	Section: "admin",
	Access:  domain.AccessProtected,
}
