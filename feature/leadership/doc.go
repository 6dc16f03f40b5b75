// Package leadership performs the one-time seeding of leadership accounts
// and roles for the program database.
//
// The seed is guarded by a migration flag: once it has completed, any later
// invocation (including a different process) observes the flag and performs
// no inserts. The seed itself runs in one transaction that first claims the
// flag row, so concurrent first starts cannot both insert; a failed seed
// rolls the claim back and the next start retries. Individual inserts are
// existence-guarded, which tolerates manually provisioned rows.
package leadership
