// Package listctl implements the load / confirm-delete lifecycle shared by
// every collection page.
//
// A Controller is created per page view, loaded exactly once, and then
// answers the three render questions: is it still loading, did it fail, and
// which records are there. Deletes are never optimistic: the record leaves
// the list only after the API confirms it.
//
//	ctl := listctl.New(listctl.Members, api.Members(), memberID, confirm, notes)
//	defer ctl.Dispose()
//	_ = ctl.Load(ctx)
//	switch st := ctl.State(); st.Phase { ... }
package listctl
