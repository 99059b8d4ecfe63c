// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with color when the terminal supports it. When NO_COLOR
// is set or colors are unavailable, text decorations are used instead:
//
//	ui.Code.Sprint("kringle assign")   // `kringle assign`
//	ui.Name.Sprint("Zuz")              // 'Zuz'
//	ui.Muted.Sprint("3 attempts")      // (3 attempts)
//
// Status glyphs (Tick, Cross, Arrow) are the prefixes used in spinner final
// messages. Banner renders large ASCII art for reveal --banner.
package ui
