package i18n

import "github.com/Thibisault/Intimacy-Coach/internal/content"

var intensity = map[Lang]map[content.Segment]string{
	FR: {
		content.Level1: "Éveil",
		content.Level2: "Frisson",
		content.Level3: "Ardeur",
		content.Level4: "Fièvre",
		content.Level5: "Apogée",
		content.Climax: "Union",
	},
	ZH: {
		content.Level1: "初醒",
		content.Level2: "微颤",
		content.Level3: "炽热",
		content.Level4: "热潮",
		content.Level5: "巅峰",
		content.Climax: "交融",
	},
}

var messages = map[Lang]map[string]string{
	FR: {
		"title":                 "Intimacy Coach",
		"tab_play":              "Jouer",
		"tab_sequence":          "Personnaliser",
		"tab_draw":              "Tirage simple",
		"start":                 "Démarrer",
		"pause":                 "Pause",
		"resume":                "Reprendre",
		"stop":                  "Stop",
		"skip":                  "Passer",
		"back":                  "Retour",
		"next_segment":          "Segment suivant",
		"quit":                  "Quitter",
		"language":              "Langue",
		"shuffle":               "Nouveau tirage",
		"draw":                  "Tirer",
		"draw_hint":             "Choisissez un segment puis Entrée",
		"sequence":              "Séquence",
		"add_step":              "Ajouter",
		"delete":                "Supprimer",
		"move":                  "Déplacer",
		"minutes":               "Minutes",
		"save":                  "Enregistrer",
		"saved":                 "Configuration enregistrée",
		"actor_cycle":           "Cycle acteurs",
		"filters_title":         "Exclusions",
		"filter_anal":           "Exclure anal",
		"filter_hard":           "Exclure hard",
		"filter_clothed":        "Exclure clothed",
		"action_of":             "Action %d/%d",
		"total_min":             "Total : %v min",
		"unit_min":              "min",
		"state_idle":            "Prêt",
		"state_running":         "En cours",
		"state_paused":          "En pause",
		"finished":              "Session terminée",
		"cooldown":              "Respirez…",
		"press_start":           "Appuyez sur Espace pour démarrer",
		"no_content":            "Contenu indisponible",
		"nothing_eligible":      "Aucune action disponible pour ce segment",
		"mode_random":           "Aléatoire",
		"mode_female-male-both": "Femme, homme, ensemble",
		"mode_just-female":      "Femme seulement",
		"mode_just-male":        "Homme seulement",
		"mode_just-both":        "Ensemble seulement",
	},
	ZH: {
		"tab_play":              "开始",
		"tab_sequence":          "自定义",
		"tab_draw":              "单次抽取",
		"start":                 "开始",
		"pause":                 "暂停",
		"resume":                "继续",
		"stop":                  "停止",
		"skip":                  "跳过",
		"back":                  "返回",
		"next_segment":          "下一段",
		"quit":                  "退出",
		"language":              "语言",
		"shuffle":               "重新抽取",
		"draw":                  "抽取",
		"draw_hint":             "选择一段后按回车",
		"sequence":              "顺序",
		"add_step":              "添加",
		"delete":                "删除",
		"move":                  "移动",
		"minutes":               "分钟",
		"save":                  "保存",
		"saved":                 "配置已保存",
		"actor_cycle":           "角色循环",
		"filters_title":         "默认筛选",
		"filter_anal":           "排除 肛交",
		"filter_hard":           "排除 高强度",
		"filter_clothed":        "排除 隔衣",
		"action_of":             "动作 %d/%d",
		"total_min":             "总计：%v 分",
		"unit_min":              "分",
		"state_idle":            "就绪",
		"state_running":         "进行中",
		"state_paused":          "已暂停",
		"finished":              "会话结束",
		"cooldown":              "呼吸…",
		"press_start":           "按空格键开始",
		"no_content":            "内容不可用",
		"nothing_eligible":      "该段没有可用的动作",
		"mode_random":           "随机",
		"mode_female-male-both": "女、男、一起",
		"mode_just-female":      "仅女方",
		"mode_just-male":        "仅男方",
		"mode_just-both":        "仅一起",
	},
}
