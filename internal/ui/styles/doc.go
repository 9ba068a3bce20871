// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the vaultchat TUI.

All colors use Lip Gloss AdaptiveColor so the palette adjusts to light
and dark terminals automatically. The Theme struct bundles every styled
component; construct one with NewTheme at startup and share it across
panels.

  - Purple - primary accent, assistant bubbles
  - Cyan - brand color, user highlights
  - Emerald - success states
  - Amber - warnings and context notices
  - Rose - errors
*/
package styles
