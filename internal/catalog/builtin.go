package catalog

import "vx/internal/types"

// windowsPlatforms is the platform table for Windows-only toolchains.
var windowsPlatforms = []types.Platform{
	{OS: "windows", Arch: "amd64"},
	{OS: "windows", Arch: "arm64"},
}

// builtinSpecs is the hand-authored runtime table. Dependency lists are
// ordered; the resolver relies on declaration order for deterministic
// install ordering. The table must stay a DAG: no runtime may depend,
// directly or transitively, on itself.
func builtinSpecs() []types.ToolSpec {
	return []types.ToolSpec{
		// Node.js ecosystem.
		{
			Name:        "node",
			Description: "Node.js JavaScript runtime",
			Aliases:     []string{"nodejs"},
			Ecosystem:   types.EcosystemNode,
			Priority:    100,
		},
		{
			Name:        "npm",
			Description: "Node.js package manager",
			Ecosystem:   types.EcosystemNode,
			Dependencies: []types.DependencySpec{
				{Runtime: "node", Required: true, Reason: "npm is bundled with Node.js", ProvidedBy: "node"},
			},
		},
		{
			Name:        "npx",
			Description: "Node.js package runner",
			Ecosystem:   types.EcosystemNode,
			Dependencies: []types.DependencySpec{
				{Runtime: "node", Required: true, Reason: "npx is bundled with Node.js", ProvidedBy: "node"},
			},
		},
		{
			Name:        "yarn",
			Description: "Fast, reliable, and secure dependency management",
			Ecosystem:   types.EcosystemNode,
			Dependencies: []types.DependencySpec{
				// Yarn 1.x native modules break on Node.js 23+.
				{Runtime: "node", Required: true, Requirement: ">=12.0.0 <23.0.0", Recommended: "20", Reason: "yarn requires Node.js runtime"},
			},
		},
		{
			Name:        "pnpm",
			Description: "Fast, disk space efficient package manager",
			Ecosystem:   types.EcosystemNode,
			Dependencies: []types.DependencySpec{
				{Runtime: "node", Required: true, Reason: "pnpm requires Node.js runtime"},
			},
		},
		{
			Name:        "bun",
			Description: "Incredibly fast JavaScript runtime and toolkit",
			Aliases:     []string{"bunx"},
			Ecosystem:   types.EcosystemNode,
			Priority:    90,
		},

		// Python ecosystem.
		{
			Name:        "python",
			Description: "Python interpreter",
			Aliases:     []string{"python3"},
			Ecosystem:   types.EcosystemPython,
			Priority:    100,
		},
		{
			Name:        "uv",
			Description: "An extremely fast Python package installer and resolver",
			Ecosystem:   types.EcosystemPython,
			Priority:    100,
		},
		{
			Name:          "uvx",
			Description:   "Python application runner",
			Ecosystem:     types.EcosystemPython,
			Executable:    "uv",
			CommandPrefix: []string{"tool", "run"},
			Dependencies: []types.DependencySpec{
				{Runtime: "uv", Required: true, Reason: "uvx is part of uv", ProvidedBy: "uv"},
			},
		},
		{
			Name:        "pip",
			Description: "Python package installer",
			Aliases:     []string{"pip3"},
			Ecosystem:   types.EcosystemPython,
			Dependencies: []types.DependencySpec{
				{Runtime: "python", Required: true, Reason: "pip requires Python runtime"},
			},
		},
		{
			Name:        "pipx",
			Description: "Install and run Python applications in isolated environments",
			Ecosystem:   types.EcosystemPython,
			Dependencies: []types.DependencySpec{
				{Runtime: "python", Required: true, Reason: "pipx requires Python runtime"},
			},
		},

		// Rust ecosystem.
		{
			Name:        "rustup",
			Description: "The Rust toolchain installer",
			Ecosystem:   types.EcosystemRust,
			Priority:    100,
		},
		{
			Name:        "cargo",
			Description: "Rust package manager and build tool",
			Ecosystem:   types.EcosystemRust,
			Dependencies: []types.DependencySpec{
				{Runtime: "rustup", Required: true, Reason: "cargo is installed via rustup", ProvidedBy: "rustup"},
			},
		},
		{
			Name:        "rustc",
			Description: "The Rust compiler",
			Ecosystem:   types.EcosystemRust,
			Dependencies: []types.DependencySpec{
				{Runtime: "rustup", Required: true, Reason: "rustc is installed via rustup", ProvidedBy: "rustup"},
			},
		},
		{
			Name:        "cargo-binstall",
			Description: "Binary installation for Rust projects",
			Ecosystem:   types.EcosystemRust,
			Dependencies: []types.DependencySpec{
				{Runtime: "cargo", Required: true, Reason: "cargo-binstall requires cargo"},
			},
		},

		// Go ecosystem.
		{
			Name:        "go",
			Description: "The Go programming language",
			Aliases:     []string{"golang"},
			Ecosystem:   types.EcosystemGo,
			Priority:    100,
		},

		// Java ecosystem.
		{
			Name:        "java",
			Description: "Java Development Kit (Eclipse Temurin)",
			Aliases:     []string{"jdk", "temurin", "openjdk"},
			Ecosystem:   types.EcosystemJava,
			Priority:    100,
		},
		{
			Name:        "javac",
			Description: "Java compiler",
			Ecosystem:   types.EcosystemJava,
			Dependencies: []types.DependencySpec{
				{Runtime: "java", Required: true, Reason: "javac is bundled with JDK", ProvidedBy: "java"},
			},
		},
		{
			Name:        "jar",
			Description: "Java archive tool",
			Ecosystem:   types.EcosystemJava,
			Dependencies: []types.DependencySpec{
				{Runtime: "java", Required: true, Reason: "jar is bundled with JDK", ProvidedBy: "java"},
			},
		},

		// Generic runtimes.
		{
			Name:               "msvc",
			Description:        "Microsoft Visual C++ Build Tools (cl, nmake)",
			Aliases:            []string{"cl", "nmake", "msvc-tools", "vs-build-tools"},
			Executable:         "cl",
			SupportedPlatforms: windowsPlatforms,
		},
		{Name: "git", Description: "Distributed version control system"},
		{Name: "make", Description: "Build automation tool", Aliases: []string{"gmake"}},
		{Name: "cmake", Description: "Cross-platform build system generator"},
		{Name: "docker", Description: "Container platform"},
		{Name: "kubectl", Description: "Kubernetes command-line tool", Aliases: []string{"k8s"}},
	}
}
