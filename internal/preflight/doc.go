// Package preflight provides readiness checks for the external tools and
// filesystem paths subgen depends on.
//
// These checks run in two contexts:
//   - The batch command calls RunAll before the first job so a missing output
//     directory or API key fails fast instead of once per file.
//   - The CLI "subgen status" command renders the same results alongside the
//     dependency report from CheckSystemDeps.
//
// Backend-specific checks only run for the configured backend.
package preflight
