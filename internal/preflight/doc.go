// Package preflight provides readiness checks for the filesystem paths an
// import depends on.
//
// The CLI "curriculum check" command runs RunAll and prints one line per
// check. Apart from probing the import lock file, checks create nothing:
// missing directories that an import would create are judged by their
// nearest existing ancestor.
package preflight
