// Package assets provides the CSS styles and HTML templates used to build
// exercise pages.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and templates (go:embed)
//	    ├── FilesystemLoader  - styles and templates from a directory on disk
//	    └── AssetResolver     - directory first, built-in as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # page style (e.g., print.css)
//	└── templates/
//	    └── {name}/
//	        ├── page.html        # exercise page
//	        └── params.html      # parameter panel
//
// Asset names are validated before use, and FilesystemLoader resolves
// symlinks and checks that every path stays under basePath.
package assets
