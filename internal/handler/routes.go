package handler

// SettingsPath is the collection path for settings documents.
// Keep a single source of truth to avoid path drift across handlers and tests.
const SettingsPath = "/settings"
