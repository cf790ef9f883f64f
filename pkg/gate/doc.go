// Package gate provides the enablement gates consulted before any flattening work.
//
// Gates compose: the usual production setup is All(Setting(store), QueryParam(""))
// so a page only logs when the persisted flag is on and the request opted in.
package gate
