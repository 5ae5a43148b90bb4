// Package services implements the driving port interfaces.
//
// ImportService runs the XWS validation and cleansing pipeline over an
// immutable catalog. CatalogService loads and copies reference data, and
// SettingsService maps the config store onto domain.AppSettings.
//
// Services depend only on domain and the driven ports. The concrete
// adapters are chosen by cmd/xwb.
package services
