package config

// FileTemplate is the commented config file written by `tempura init`.
const FileTemplate = `# Tempura Configuration File
#
# Values here can be overridden with TEMPURA_* environment variables,
# e.g. TEMPURA_LOGGING_LEVEL=debug.

logging:
  # trace, debug, info, warn, error, disabled
  level: warn
  # console or json
  format: console

templates:
  # Extra directories searched for templates before the builtin set.
  dirs: []
  # Template used by "tempura create" when --template is omitted
  # in a non-interactive session.
  default: vite-react-tw-ts

create:
  # Allow materializing into a non-empty directory.
  overwrite: false

history:
  enabled: true
  # path: ~/.local/share/tempura/history.db

tui:
  # default or high-contrast
  theme: default
`
