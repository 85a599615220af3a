// Package cli implements the interactive brimon shell.
//
// The shell reads one command per line, dispatches it to App and prints the
// result. App holds the services and the user of the current session; every
// service call is made on behalf of that user (see authz.Caller), so what a
// command shows or changes depends on the user's role.
//
// Typical session:
//
//	brimon > login avri
//	Enter password: ****
//	Welcome, Avri (admin)
//	brimon (avri admin)> tasks all
//	...
//	brimon (avri admin)> export orders all xlsx
//	Exported to /work/exports/orders-20261019-101500.xlsx
//	brimon (avri admin)> exit
//	Bye!
package cli
