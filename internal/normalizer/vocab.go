package normalizer

// Curated vocabularies for feature extraction. Matching is case-insensitive
// substring containment, so multi-word entries match inline mentions too.

var skillVocabulary = []string{
	// programming languages
	"javascript", "python", "java", "c++", "c#", "php", "ruby", "go", "rust", "swift",
	"typescript", "kotlin", "scala", "r", "matlab", "perl", "haskell", "dart",
	// web
	"html", "css", "react", "angular", "vue", "node.js", "express", "django", "flask",
	"spring", "laravel", "ruby on rails", "asp.net", "jquery", "bootstrap",
	// databases
	"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle", "sql server",
	"cassandra", "elasticsearch", "dynamodb",
	// cloud & devops
	"aws", "azure", "google cloud", "docker", "kubernetes", "terraform", "ansible",
	"jenkins", "git", "ci/cd", "linux", "nginx", "apache",
	// mobile
	"react native", "flutter", "android", "ios", "xcode", "android studio",
	// data science
	"machine learning", "deep learning", "tensorflow", "pytorch", "pandas", "numpy",
	"scikit-learn", "data analysis", "data visualization", "tableau", "power bi",
	// soft skills
	"communication", "leadership", "teamwork", "problem solving", "critical thinking",
	"time management", "adaptability", "creativity", "collaboration",
}

var educationVocabulary = []string{
	"phd", "doctorate", "masters", "bachelor", "bs", "ba", "ms", "mba",
	"associate", "diploma", "certificate",
}

var certificationVocabulary = []string{
	"pmp", "aws certified", "microsoft certified", "google cloud certified",
	"cisco certified", "comptia", "scrum master", "project management",
	"six sigma", "itil", "ceh", "security+",
}
