package buildinfo

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the boot banner and the
// panic screen.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the full identifier printed by --version.
func String() string {
	s := Short()
	if Commit != "" && Commit != "unknown" && s != Commit {
		s += " (" + Commit
		if Date != "" && Date != "unknown" {
			s += ", " + Date
		}
		s += ")"
	}
	return s
}
