package meeting

import (
	"strings"

	"github.com/summario-team/summario-api/errors"
)

// Transcription model identifiers understood by the bot platform
const (
	ModelDeepgram = "deepgram-v3"
	ModelWhisper  = "whisper"
)

// DetectService determines the conference service from the meeting URL.
// Unknown URLs are rejected; we never dispatch a bot to a service we
// cannot name.
func DetectService(meetingURL string) (string, error) {
	url := strings.ToLower(meetingURL)
	switch {
	case strings.Contains(url, "meet.google.com"), strings.Contains(url, "gmeet"):
		return "gmeet", nil
	case strings.Contains(url, "teams.microsoft.com"), strings.Contains(url, "teams"):
		return "teams", nil
	case strings.Contains(url, "zoom.us"), strings.Contains(url, "zoom"):
		return "zoom", nil
	default:
		return "", errors.ErrUnsupportedMeetingURL(meetingURL)
	}
}

// SelectTranscriptionModel picks the transcription model for the
// requested diarization setting. Deepgram supports speaker diarization,
// whisper does not.
func SelectTranscriptionModel(enableDiarization bool) string {
	if enableDiarization {
		return ModelDeepgram
	}
	return ModelWhisper
}

// deepgramLanguages maps user-facing two-letter codes to the Deepgram
// Nova-3 locale identifiers
var deepgramLanguages = map[string]string{
	"en": "en-US",
	"de": "de",
	"nl": "nl",
	"sv": "sv-SE",
	"da": "da-DK",
	"es": "es",
	"fr": "fr",
	"pt": "pt",
	"it": "it",
	"tr": "tr",
	"no": "no",
	"id": "id",
	"hi": "hi",
	"pl": "pl",
	"ja": "ja",
	"ru": "ru",
	"ko": "ko",
	"vi": "vi",
}

// whisperLanguages maps two-letter codes to the capitalized language
// names whisper expects
var whisperLanguages = map[string]string{
	"af": "Afrikaans",
	"ar": "Arabic",
	"hy": "Armenian",
	"az": "Azerbaijani",
	"be": "Belarusian",
	"bs": "Bosnian",
	"bg": "Bulgarian",
	"ca": "Catalan",
	"zh": "Chinese",
	"hr": "Croatian",
	"cs": "Czech",
	"da": "Danish",
	"nl": "Dutch",
	"en": "English",
	"et": "Estonian",
	"fi": "Finnish",
	"fr": "French",
	"gl": "Galician",
	"de": "German",
	"el": "Greek",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"is": "Icelandic",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"kn": "Kannada",
	"kk": "Kazakh",
	"ko": "Korean",
	"lv": "Latvian",
	"lt": "Lithuanian",
	"mk": "Macedonian",
	"ms": "Malay",
	"mr": "Marathi",
	"mi": "Maori",
	"ne": "Nepali",
	"no": "Norwegian",
	"fa": "Persian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sr": "Serbian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"es": "Spanish",
	"sw": "Swahili",
	"sv": "Swedish",
	"tl": "Tagalog",
	"ta": "Tamil",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"cy": "Welsh",
}

// MapLanguage translates a user language code into the identifier the
// chosen transcription model understands. Returns "" when the platform
// request should omit the language field: "auto" always, and whisper
// codes outside its supported set. Deepgram falls back to its
// multilingual mode for unmapped codes.
func MapLanguage(model, language string) string {
	if language == "" || language == "auto" {
		return ""
	}
	if model == ModelDeepgram {
		if mapped, ok := deepgramLanguages[language]; ok {
			return mapped
		}
		return "multi"
	}
	return whisperLanguages[language]
}

// consentMessages holds the recording consent notice posted to meeting
// chat, per language
var consentMessages = map[string]string{
	"en": "Summario is transcribing and generating minutes for this meeting. If you do not consent, please state your objection now.",
	"es": "Summario está transcribiendo y generando actas para esta reunión. Si no consiente, por favor indique su objeción ahora.",
	"fr": "Summario transcrit et génère des procès-verbaux pour cette réunion. Si vous ne consentez pas, veuillez indiquer votre objection maintenant.",
	"de": "Summario transkribiert und erstellt Protokolle für dieses Meeting. Wenn Sie nicht einverstanden sind, teilen Sie bitte jetzt Ihren Einwand mit.",
	"it": "Summario sta trascrivendo e generando verbali per questo incontro. Se non acconsenti, per favore esprimi la tua obiezione ora.",
	"pt": "O Summario está transcrevendo e gerando atas para esta reunião. Se você não consente, por favor declare sua objeção agora.",
	"ja": "Summarioがこの会議の文字起こしと議事録作成を行っています。同意されない場合は、今すぐ異議を述べてください。",
	"ko": "Summario가 이 회의를 전사하고 회의록을 생성하고 있습니다. 동의하지 않으시면 지금 이의를 제기해 주세요.",
	"zh": "Summario正在转录并生成此次会议的会议纪要。如果您不同意，请现在提出异议。",
	"ru": "Summario транскрибирует и создает протокол этого собрания. Если вы не согласны, пожалуйста, выразите свое возражение сейчас.",
	"hi": "Summario इस बैठक के लिए ट्रांसक्रिप्शन और मिनट्स तैयार कर रहा है। यदि आप सहमत नहीं हैं, तो कृपया अभी अपनी आपत्ति बताएं।",
	"nl": "Summario transcribeert en genereert notulen voor deze vergadering. Als u niet instemt, gelieve uw bezwaar nu kenbaar te maken.",
	"tr": "Summario bu toplantı için transkripsiyon yapıyor ve tutanak oluşturuyor. Rıza göstermiyorsanız, lütfen itirazınızı şimdi belirtin.",
	"no": "Summario transkriberer og genererer referater for dette møtet. Hvis du ikke samtykker, vennligst gi uttrykk for din innvending nå.",
	"id": "Summario sedang mentranskrip dan membuat notulen untuk rapat ini. Jika Anda tidak setuju, silakan nyatakan keberatan Anda sekarang.",
	"sv": "Summario transkriberar och genererar protokoll för detta möte. Om du inte samtycker, vänligen uttryck din invändning nu.",
	"da": "Summario transkriberer og genererer referater til dette møde. Hvis du ikke giver dit samtykke, bedes du angive din indsigelse nu.",
	"pl": "Summario transkrybuje i generuje protokoły z tego spotkania. Jeśli nie wyrażasz zgody, prosimy o zgłoszenie sprzeciwu teraz.",
	"vi": "Summario đang phiên âm và tạo biên bản cho cuộc họp này. Nếu bạn không đồng ý, vui lòng nêu ý kiến phản đối ngay bây giờ.",
	"ar": "يقوم Summario بنسخ وإنشاء محاضر لهذا الاجتماع. إذا كنت لا توافق، يرجى ذكر اعتراضك الآن.",
	"th": "Summario กำลังถอดเสียงและสร้างรายงานการประชุมนี้ หากคุณไม่ยินยอม กรุณาแจ้งคัดค้านตอนนี้",
	"fi": "Summario litteroi ja luo pöytäkirjaa tästä kokouksesta. Jos et anna suostumustasi, ilmoita vastalauseesi nyt.",
	"cs": "Summario přepisuje a generuje zápis z této schůzky. Pokud nesouhlasíte, vyjádřete prosím svou námitku nyní.",
	"hu": "A Summario átírja és jegyzőkönyvet készít erről az értekezletről. Ha nem ért egyet, kérjük, most fejezze ki kifogását.",
	"bg": "Summario транскрибира и генерира протокол от тази среща. Ако не се съгласявате, моля изразете възражението си сега.",
	"hr": "Summario transkribira i generira zapisnik ovog sastanka. Ako se ne slažete, molimo izrazite svoj prigovor sada.",
	"sk": "Summario prepisuje a generuje zápisnicu z tejto schôdze. Ak nesúhlasíte, vyjadrite prosím svoj námietku teraz.",
	"sl": "Summario prepisuje in ustvarja zapisnik tega sestanka. Če se ne strinjate, prosimo izrazite svoj ugovor zdaj.",
	"et": "Summario transkribeerib ja loob selle koosoleku protokolli. Kui te ei nõustu, palun avaldage oma vastuväide kohe.",
	"lv": "Summario transkribē un veido šīs sapulces protokolu. Ja jūs nepiekrītat, lūdzu, izteiciet savu iebildumu tagad.",
	"lt": "Summario transkribuoja ir kuria šio susitikimo protokolą. Jei nesutinkate, prašome dabar pareikšti savo prieštaravimą.",
	"ro": "Summario transcrie și generează procesul-verbal al acestei întâlniri. Dacă nu sunteți de acord, vă rugăm să vă exprimați obiecția acum.",
	"uk": "Summario транскрибує та генерує протокол цієї зустрічі. Якщо ви не згодні, будь ласка, висловіть свою заперечення зараз.",
	"af": "Summario transkribeer en genereer notules vir hierdie vergadering. As jy nie toestem nie, stel asseblief jou beswaar nou bekend.",
	"hy": "Summario գրանցում և արձանագրություններ է ստեղծում այս հանդիպման համար: Եթե դուք համաձայն չեք, խնդրում ենք հիմա հայտնել ձեր առարկությունը:",
	"az": "Summario bu görüş üçün transkripsiyanı və protokolları hazırlayır. Əgər razı deyilsinizsə, xahiş edirik etirazınızı indi bildirin.",
	"be": "Summario транскрыбуе і ствараe пратакол гэтай сустрэчы. Калі вы не згодныя, калі ласка, выказайце сваё запярэчэнне зараз.",
	"bs": "Summario transkribuje i generiše zapisnik ovog sastanka. Ako se ne slažete, molimo izrazite svoj prigovor sada.",
	"ca": "Summario transcriu i genera actes d'aquesta reunió. Si no hi esteu d'acord, si us plau, expresseu la vostra objecció ara.",
	"gl": "Summario transcribe e xera actas desta reunión. Se non está de acordo, exprese a súa obxección agora.",
	"el": "Το Summario μεταγράφει και δημιουργεί πρακτικά για αυτή τη σύσκεψη. Εάν δεν συμφωνείτε, παρακαλώ εκφράστε την αντίρρησή σας τώρα.",
	"he": "Summario מתמלל ויוצר פרוטוקולים עבור פגישה זו. אם אינך מסכים, אנא הבע את התנגדותך כעת.",
	"is": "Summario skrifar og býr til fundargerðir fyrir þennan fund. Ef þú samþykkir ekki, vinsamlegast tjáðu andmæli þín núna.",
	"kn": "Summario ಈ ಸಭೆಗಾಗಿ ಪ್ರತಿಲೇಖನ ಮತ್ತು ಕಾರ್ಯಪತ್ರಿಕೆಗಳನ್ನು ಸೃಷ್ಟಿಸುತ್ತಿದೆ. ನೀವು ಒಪ್ಪದಿದ್ದರೆ, ದಯವಿಟ್ಟು ಈಗ ನಿಮ್ಮ ಆಕ್ಷೇಪಣೆಯನ್ನು ತಿಳಿಸಿ.",
	"kk": "Summario осы кездесуге арналған транскрипция мен хаттамаларды жасайды. Егер келіспесеңіз, қазір қарсылығыңызды білдіріңіз.",
	"mk": "Summario транскрибира и генерира записници за овој состанок. Ако не се согласувате, ве молиме изразете го вашиот приговор сега.",
	"ms": "Summario sedang menyalin dan menjana minit untuk mesyuarat ini. Jika anda tidak bersetuju, sila nyatakan bantahan anda sekarang.",
	"mr": "Summario या बैठकीसाठी प्रतिलेखन आणि कार्यवृत्त तयार करत आहे. जर तुमची सहमती नसेल तर कृपया आता तुमचा आक्षेप नोंदवा.",
	"mi": "Kei te tuhituhi a Summario me te hanga miniti mo tenei hui. Ki te kore koe e whakaae, tena koa whakapuaki to tautohe inaianei.",
	"ne": "Summario यस बैठकको लागि ट्रान्सक्रिप्शन र मिनेट सिर्जना गर्दैछ। यदि तपाईं सहमत हुनुहुन्न भने, कृपया अहिले आफ्नो आपत्ति व्यक्त गर्नुहोस्।",
	"fa": "Summario در حال رونویسی و ایجاد صورتجلسه برای این جلسه است. اگر موافق نیستید، لطفاً اعتراض خود را اکنون بیان کنید.",
	"sr": "Summario транскрибује и генерише записнике за овај састанак. Ако се не слажете, молимо изразите свој приговор сада.",
	"sw": "Summario inaandika na kuunda kumbukumbu za kikao hiki. Usipopatana nayo, tafadhali toa pingamizi lako sasa.",
	"tl": "Nag-transcribe at gumagawa ng mga minuto si Summario para sa pulong na ito. Kung hindi ka sumasang-ayon, mangyaring ipahayag ang inyong tutol ngayon.",
	"ta": "இந்த கூட்டத்திற்கு Summario பதிவு மற்றும் நிமிடங்களை உருவாக்குகிறது. நீங்கள் ஒப்புக்கொள்ளவில்லை என்றால், தயவுசெய்து இப்போது உங்கள் ஆட்சேபனையை தெரிவிக்கவும்.",
	"ur": "Summario اس میٹنگ کے لیے نقل اور منٹس بنا رہا ہے۔ اگر آپ متفق نہیں ہیں تو براہ کرم ابھی اپنا اعتراض ظاہر کریں۔",
	"cy": "Mae Summario yn trawsgrifio ac yn creu cofnodion ar gyfer y cyfarfod hwn. Os nad ydych chi'n cytuno, mynegwch eich gwrthwynebiad nawr os gwelwch yn dda.",
}

// ConsentMessage returns the recording consent notice for a language,
// falling back to English. "auto" is treated as English.
func ConsentMessage(language string) string {
	if language == "" || language == "auto" {
		return consentMessages["en"]
	}
	if msg, ok := consentMessages[language]; ok {
		return msg
	}
	return consentMessages["en"]
}
