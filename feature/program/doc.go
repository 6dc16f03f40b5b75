// Package program declares the target schema of the YouthWorks program
// database and runs reconciliation over it.
//
// The builtin specs in TargetSpecs cover the application's tables (youth
// profiles, businesses, mentors, makerspaces, resources, accounts and
// permissions). Deployments with custom shapes can substitute a YAML
// manifest instead; the Service treats both the same way.
package program
