// Package files locates POS sales exports on disk.
//
// The processor accepts either an export file or a directory. For a
// directory, Discovery lists the exports it holds and the most recently
// modified one is processed.
package files
