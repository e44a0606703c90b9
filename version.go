package searchsim

// Version is the release of the simulator, set at build time with
// -ldflags "-X github.com/aretw0/searchsim.Version=...".
var Version = "0.1.0-dev"
