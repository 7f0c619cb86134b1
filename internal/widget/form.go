package widget

func switchCol(model, label string) Node {
	return El("VCol", Props{"cols": 12, "md": 6},
		El("VSwitch", Props{"model": model, "label": label}),
	)
}

// SettingsForm renders the settings form. Field models match the settings keys.
func SettingsForm() []Node {
	return []Node{
		El("VForm", nil,
			El("VRow", nil,
				switchCol("enabled", "启用插件"),
				switchCol("notify", "发送通知"),
			),
			El("VRow", nil,
				switchCol("cover", "显示封面图片"),
				switchCol("onlyonce", "立即运行一次"),
			),
			El("VRow", nil,
				El("VCol", Props{"cols": 12, "md": 6},
					El("VTextField", Props{
						"model":       "cron",
						"label":       "执行周期",
						"placeholder": "5位cron表达式",
					}),
				),
			),
			El("VRow", nil,
				El("VCol", Props{"cols": 12},
					El("VAlert", Props{
						"type":    "info",
						"variant": "tonal",
						"text":    "数据来源于60秒读懂世界API，每日自动更新全球要闻速览",
					}),
				),
			),
		),
	}
}
