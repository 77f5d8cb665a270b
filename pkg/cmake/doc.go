// Package cmake renders compiled definitions for the CMake build-file
// generator.
//
// Definitions keep their declaration order. Each one becomes a cache
// entry argument of the form -DNAME:TYPE=VALUE:
//
//	res, _ := resolver.Resolve(ctx, pkg, req)
//	args := cmake.Args(res.Definitions)
//	// [-DBOUT_DOWNLOAD_ADIOS2:BOOL=OFF ... -DCHECK:STRING=2 ...]
//
// CommandLine quotes the arguments for a POSIX shell and InitialCache
// produces a script suitable for "cmake -C".
package cmake
