package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Pause
	Loop
	Speed
	Link
	History
	Question
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(╯°□°）╯︵ ┻━┻",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "…",
		kaomoji: "(・_・ヾ",
		squares: "🟨",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "🟦",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－) zzZ",
		squares: "⬜",
	},
	Loop: {
		emoji:   "🔁",
		nerd:    "",
		plain:   "@",
		kaomoji: "(っ˘ω˘ς)",
		squares: "🟪",
	},
	Speed: {
		emoji:   "⚡",
		nerd:    "",
		plain:   "x",
		kaomoji: "ε=ε=┌( >_<)┘",
		squares: "🟧",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "~",
		kaomoji: "(￣▽￣)ノ",
		squares: "🟫",
	},
	History: {
		emoji:   "📜",
		nerd:    "",
		plain:   "#",
		kaomoji: "(｡•̀ᴗ-)✧",
		squares: "⬛",
	},
	Question: {
		emoji:   "🤨",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・ ) ?",
		squares: "🟨",
	},
}
