/*
Package fuse surfaces the virtual namespace as an OS-visible filesystem.

Two backends implement the same PlatformFileSystem surface, selected at
build time: the go-fuse node API (default) and a cgofuse implementation
behind the `cgofuse` build tag for hosts without go-fuse support. Both are
thin: every decision about what exists, what it looks like, and what a file
contains is a namespace query keyed by the request path, and the adapter
only translates results into kernel structures and error numbers
(PATH_NOT_FOUND to ENOENT, ACCESS_DENIED to EACCES).

The adapter owns the only mutable state in the process: mount lifecycle and
operation counters. The namespace underneath is pure, so no locking guards
any request path; the counters take a mutex of their own.

One intentional oddity inherited from the namespace contract: the mount
root itself answers ENOENT to stat and readdir. Only descriptor paths
beneath it resolve.
*/
package fuse
