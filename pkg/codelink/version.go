package codelink

// Version is the codelink release version.
const Version = "0.1.0"
