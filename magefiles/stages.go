//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Generate writes a blog post for the outline file at path.
func Generate(path string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "generate", "--outline", path, "--html")
}

// Retrieve writes a blog post for the outline at path with the retrieval
// drafter and the local SQLite index.
func Retrieve(path string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "generate", "--outline", path, "--variant", "retrieval")
}

// Outline shows how the outline file at path splits into sections.
func Outline(path string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "outline", path)
}

// Search prints the result URLs for query.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "search", query)
}

// Fetch prints the cleaned text of url.
func Fetch(url string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "fetch", url)
}
