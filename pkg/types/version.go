package types

// Version is the library version reported by hello.Version and the CLI.
const Version = "1.0.0"
