// Package prompt renders candidate combinations into the provider's
// instruction text and parses the provider's reply back into verdicts.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

const template = `你是一位资深的汉语言学家和词源学家。你的任务是分析下面这个JSON数组中的每一个字符串，判断它是否是一个真实存在、有准确含义的汉语词汇。

请严格遵循以下规则：
1. 你的回答必须是一个JSON格式的数组。
2. 对于数组中每一个确实构成真实词汇的字符串，在JSON数组中为其创建一个对应的JSON对象。
3. 如果数组中没有任何一个字符串是有效的词汇，你必须返回一个空的JSON数组 []。
4. 每个有效词汇的JSON对象必须包含以下键：
   - word: (字符串) 经过验证的有效词汇本身。
   - definition: (字符串) 对该词汇的准确、简洁的释义。
   - source: (字符串或null) 如果该词汇有明确的古籍或现代文献出处，请提供；否则为 null。

待分析的词汇列表如下：
%s

你的回答必须是且只能是一个符合上述要求的、完整的JSON数组。不要添加任何额外的解释或文本。`

// Entry is one element of the provider's JSON-array reply.
type Entry struct {
	Word       string  `json:"word"`
	Definition string  `json:"definition"`
	Source     *string `json:"source"`
}

// Render embeds the candidate list into the verification instruction.
func Render(combinations []string) (string, error) {
	list, err := json.Marshal(combinations)
	if err != nil {
		return "", fmt.Errorf("prompt: marshal candidates: %w", err)
	}
	return fmt.Sprintf(template, list), nil
}

// Parse decodes the model reply into entries. Models routinely wrap their
// JSON in Markdown code fences; those are stripped first. Anything that
// still fails to parse as a JSON array degrades to "nothing verified"
// rather than failing the round.
func Parse(raw string) []Entry {
	cleaned := stripFences(strings.TrimSpace(raw))

	var entries []Entry
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil
	}

	// Entries without a word carry no information.
	out := entries[:0]
	for _, e := range entries {
		if e.Word != "" {
			out = append(out, e)
		}
	}
	return out
}

func stripFences(s string) string {
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
