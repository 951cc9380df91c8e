// Package rules provides the built-in classification table for the
// WebForms-to-Blazor migration and loading of operator overrides.
package rules

import m "github.com/formshift/formshift/internal/model"

// Builtin returns the default classification table. Qualified names cover the
// retired server-rendered surface: System.Web page plumbing and the
// DevExpress.ExpressApp.Web / DevExpress.Web control stack.
func Builtin() *m.Ruleset {
	return &m.Ruleset{
		NoEquivalent: map[string]m.Rule{
			"System.Web.UI.Page": {
				Reason:   "System.Web.UI.Page has no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"System.Web.UI.UserControl": {
				Reason:   "System.Web.UI.UserControl has no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"System.Web.UI.Control": {
				Reason:   "System.Web.UI.Control has no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"System.Web.UI.WebControls.WebControl": {
				Reason:   "System.Web.UI.WebControls.WebControl has no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"System.Web.HttpContext": {
				Reason:      "System.Web.HttpContext is not available in Blazor",
				Description: "Use dependency-injected services or JS interop instead of the ambient HTTP context.",
				Severity:    m.SeverityCritical,
			},
			"System.Web.HttpCookie": {
				Reason:   "System.Web.HttpCookie is not available in Blazor",
				Severity: m.SeverityCritical,
			},
			"DevExpress.ExpressApp.Web.WebApplication": {
				Reason:   "WebApplication is replaced by BlazorApplication, which is wired by the project template",
				Severity: m.SeverityCritical,
			},
			"DevExpress.ExpressApp.Web.WebWindow": {
				Reason:   "WebWindow has no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"DevExpress.ExpressApp.Web.PopupWindowManager": {
				Reason:   "PopupWindowManager has no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"DevExpress.ExpressApp.Web.Templates.BaseXafPage": {
				Reason:   "WebForms page templates have no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"DevExpress.ExpressApp.Web.Templates.XafPopupControl": {
				Reason:   "WebForms popup templates have no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"DevExpress.ExpressApp.Web.Layout.WebLayoutManager": {
				Reason:   "WebLayoutManager has no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
			"DevExpress.ExpressApp.Web.SystemModule.WebSystemAspNetModule": {
				Reason:   "WebSystemAspNetModule is replaced by SystemBlazorModule, which is wired by the project template",
				Severity: m.SeverityCritical,
			},
			"DevExpress.Web.ASPxGridView": {
				Reason:   "ASPxGridView has no Blazor equivalent; use DxGrid in new components",
				Severity: m.SeverityCritical,
			},
			"DevExpress.Web.ASPxComboBox": {
				Reason:   "ASPxComboBox has no Blazor equivalent; use DxComboBox in new components",
				Severity: m.SeverityCritical,
			},
			"DevExpress.Web.ASPxCallbackPanel": {
				Reason:   "Callback panels have no Blazor equivalent; Blazor re-renders components instead",
				Severity: m.SeverityCritical,
			},
			"DevExpress.Web.ASPxWebControl": {
				Reason:   "ASPx web controls have no Blazor equivalent",
				Severity: m.SeverityCritical,
			},
		},
		Manual: map[string]m.Rule{
			"DevExpress.ExpressApp.Web.Editors.ASPx.ASPxPropertyEditor": {
				Reason:      "Property editors must be reimplemented as Blazor property editors",
				Description: "Derive from BlazorPropertyEditorBase and render a Razor component.",
				Severity:    m.SeverityHigh,
			},
			"DevExpress.ExpressApp.Web.Editors.ASPx.ASPxObjectPropertyEditorBase": {
				Reason:   "Object property editors must be reimplemented as Blazor property editors",
				Severity: m.SeverityHigh,
			},
			"DevExpress.ExpressApp.Editors.ListEditor": {
				Reason:      "Custom list editors must be reimplemented against the Blazor editor contract",
				Description: "Derive from the Blazor ListEditor base and move rendering into a component.",
				Severity:    m.SeverityHigh,
			},
			"DevExpress.ExpressApp.Web.Editors.ComplexWebListEditor": {
				Reason:   "Complex web list editors must be reimplemented against the Blazor editor contract",
				Severity: m.SeverityHigh,
			},
			"DevExpress.ExpressApp.Web.SystemModule.WebModificationsController": {
				Reason:   "Web modifications controllers need review against the Blazor modifications pipeline",
				Severity: m.SeverityMedium,
			},
			"DevExpress.ExpressApp.Templates.IFrameTemplate": {
				Reason:   "Frame templates are replaced by Razor layout components and need a manual port",
				Severity: m.SeverityMedium,
			},
		},
		// Renames are executed by the substitution pass that runs after this
		// engine; the table is carried here so `formshift rules` can audit it.
		Renameable: map[string]string{
			"DevExpress.ExpressApp.Web.WebModuleBase":                           "DevExpress.ExpressApp.ModuleBase",
			"DevExpress.ExpressApp.Web.SystemModule.WebShowViewStrategyBase":    "DevExpress.ExpressApp.ShowViewStrategyBase",
			"DevExpress.ExpressApp.Web.Editors.ASPx.ASPxDateTimePropertyEditor": "DevExpress.ExpressApp.Blazor.Editors.DateTimePropertyEditor",
		},
		ProtectedBases: []string{
			"ModuleBase",
			"Controller",
			"ViewController",
			"WindowController",
			"ObjectViewController",
			"ModelNodesGeneratorUpdater",
		},
	}
}
