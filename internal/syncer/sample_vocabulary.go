package syncer

import "github.com/example/vocabmaster/pkg/models"

var sampleVocabulary = []models.VocabularyItem{
	{ID: "sample-1", Word: "achieve", Type: "verb", Meaning: "đạt được, giành được", IpaUK: "/əˈtʃiːv/", IpaUS: "/əˈtʃiːv/",
		Example1: "She worked hard to achieve her goals.", Example1Meaning: "Cô ấy đã làm việc chăm chỉ để đạt được mục tiêu của mình.", Unit: 1},
	{ID: "sample-2", Word: "confident", Type: "adjective", Meaning: "tự tin", IpaUK: "/ˈkɒn.fɪ.dənt/", IpaUS: "/ˈkɑːn.fə.dənt/",
		Example1: "He feels confident about his exam results.", Example1Meaning: "Anh ấy cảm thấy tự tin về kết quả kỳ thi của mình.", Unit: 1},
	{ID: "sample-3", Word: "delicious", Type: "adjective", Meaning: "ngon miệng", IpaUK: "/dɪˈlɪʃ.əs/", IpaUS: "/dɪˈlɪʃ.əs/",
		Example1: "The cake you made was absolutely delicious.", Example1Meaning: "Cái bánh bạn làm ngon tuyệt vời.", Unit: 1},
	{ID: "sample-4", Word: "improve", Type: "verb", Meaning: "cải thiện, tiến bộ", IpaUK: "/ɪmˈpruːv/", IpaUS: "/ɪmˈpruːv/",
		Example1: "I want to improve my English speaking skills.", Example1Meaning: "Tôi muốn cải thiện kỹ năng nói tiếng Anh của mình.", Unit: 1},
	{ID: "sample-5", Word: "opportunity", Type: "noun", Meaning: "cơ hội", IpaUK: "/ˌɒp.əˈtʃuː.nə.ti/", IpaUS: "/ˌɑː.pɚˈtuː.nə.t̬i/",
		Example1: "This is a great opportunity to travel.", Example1Meaning: "Đây là một cơ hội tuyệt vời để đi du lịch.", Unit: 1},
	{ID: "sample-6", Word: "decision", Type: "noun", Meaning: "quyết định", IpaUK: "/dɪˈsɪʒ.ən/", IpaUS: "/dɪˈsɪʒ.ən/",
		Example1: "He has to make an important decision today.", Example1Meaning: "Anh ấy phải đưa ra một quyết định quan trọng hôm nay.", Unit: 2},
	{ID: "sample-7", Word: "environment", Type: "noun", Meaning: "môi trường", IpaUK: "/ɪnˈvaɪə.rən.mənt/", IpaUS: "/ɪnˈvaɪ.rən.mənt/",
		Example1: "We need to protect the environment.", Example1Meaning: "Chúng ta cần phải bảo vệ môi trường.", Unit: 2},
	{ID: "sample-8", Word: "especially", Type: "adverb", Meaning: "đặc biệt là", IpaUK: "/ɪˈspeʃ.əl.i/", IpaUS: "/əˈspeʃ.əl.i/",
		Example1: "I love Italian food, especially pasta.", Example1Meaning: "Tôi yêu thích đồ ăn Ý, đặc biệt là mì ống.", Unit: 2},
	{ID: "sample-9", Word: "suggest", Type: "verb", Meaning: "gợi ý, đề nghị", IpaUK: "/səˈdʒest/", IpaUS: "/səɡˈdʒest/",
		Example1: "Can you suggest a good restaurant nearby?", Example1Meaning: "Bạn có thể gợi ý một nhà hàng tốt gần đây không?", Unit: 2},
	{ID: "sample-10", Word: "valuable", Type: "adjective", Meaning: "quý giá, có giá trị", IpaUK: "/ˈvæl.jə.bəl/", IpaUS: "/ˈvæl.jə.bəl/",
		Example1: "Time is the most valuable thing a person can spend.", Example1Meaning: "Thời gian là thứ quý giá nhất mà một người có thể tiêu tốn.", Unit: 2},
}

// SampleVocabulary returns a copy of the built-in guest vocabulary
func SampleVocabulary() []models.VocabularyItem {
	out := make([]models.VocabularyItem, len(sampleVocabulary))
	copy(out, sampleVocabulary)
	return out
}
