package cli

// Argument lists for the CLI commands the upload check drives. Paths and
// identifiers are passed as single elements so spaces never need quoting.

// UpdateIndexArgs refreshes the local index of platform packages.
func UpdateIndexArgs() []string {
	return []string{"core", "update-index"}
}

// CoreInstallArgs installs the platform package core (e.g. "arduino:avr").
func CoreInstallArgs(core string) []string {
	return []string{"core", "install", core}
}

// SketchNewArgs creates a sketch scaffold at path.
func SketchNewArgs(path string) []string {
	return []string{"sketch", "new", path}
}

// CompileArgs compiles the sketch at path for fqbn.
func CompileArgs(fqbn, path string) []string {
	return []string{"compile", "-b", fqbn, path}
}

// UploadArgs uploads the compiled sketch at path to the board at address.
func UploadArgs(fqbn, address, path string) []string {
	return []string{"upload", "-b", fqbn, "-p", address, path}
}

// BoardListArgs lists attached boards as JSON.
func BoardListArgs() []string {
	return []string{"board", "list", "--format", "json"}
}
