package config

// Curated exclusion vocabularies. These are starting points: deployments
// tune them through the YAML overlay as new noise shows up in reports.

// defaultJargon is domain-generic business language that carries no signal
// regardless of how often it appears.
var defaultJargon = []string{
	// generic business terms
	"fiscal year", "going forward", "shareholder value", "quarterly results",
	"year over year", "quarter over quarter", "revenue growth", "profit margin",
	"operating income", "net income", "gross margin", "free cash flow",
	"capital expenditure", "balance sheet", "income statement", "cash flow",
	"earnings per share", "market share", "customer satisfaction", "strategic priority",
	"core business", "competitive advantage", "value proposition", "key driver",
	"organic growth", "bottom line", "top line", "cost reduction",
	"operational efficiency", "strong performance", "challenging environment",
	"guidance range", "full year", "first quarter", "second quarter",
	"third quarter", "fourth quarter", "year end", "last year",
	"prior year", "current quarter", "next quarter", "fiscal quarter",

	// tech terms too broad to ever be emerging
	"software development", "data center", "cloud computing", "machine learning",
	"artificial intelligence", "digital transformation",

	// transcript filler
	"thank you", "good morning", "good afternoon", "good evening",
	"great question", "next question", "operator please",
}

// defaultGeneric are exact phrases that survive the jargon list but say
// nothing on their own.
var defaultGeneric = []string{
	"new way", "first time", "next step", "last year", "next year",
	"more than", "less than", "most important", "new era",
	"big data", "best practices", "key takeaways", "main point",
	"related topics", "funding announcement", "business users",
	"ai future", "ai era", "news article", "blog post",
	"where ai", "just the beginning", "little impact", "ai remains",
	"ai trade", "says ai", "nearly 70", "top shape",
}

// defaultSocial are navigation/social-media markers; a phrase containing
// any of them is boilerplate, not content.
var defaultSocial = []string{
	"share", "linkedin", "facebook", "twitter", "post", "click",
	"subscribe", "newsletter", "email", "sign up", "read more",
	"learn more", "view all", "see more", "follow", "like",
}

// defaultFirms are investor and firm-name markers that make entity names
// masquerade as concepts.
var defaultFirms = []string{
	"sequoia", "greylock", "andreessen", "a16z", "bessemer", "accel",
	"benchmark", "kleiner", "nfx", "lightspeed", "index ventures",
	"first round", "capital", "ventures", "partners", "portfolio",
}

// defaultMarketNoise are outlet names and market-movement phrases from
// financial feeds.
var defaultMarketNoise = []string{
	"yahoo finance", "marketwatch", "cnbc", "reuters", "bloomberg",
	"seeking alpha", "wall street", "stock market", "market cap",
	"stock price", "share price", "stock dips", "stock rises",
	"stock falls", "stock gains", "stocks to watch", "trading day",
	"market close", "market open", "earnings report", "earnings call",
	"quarterly results", "fiscal quarter", "revenue growth",
	"upbeat outlook", "analyst rating", "buy rating",
	"hold rating", "sell rating", "price target", "ticker symbol",
	"morning squawk", "five key", "key things", "weak revenue",
	"down ai", "ai stocks", "new year", "quarterly earnings",
	"earnings preview", "earnings news", "google news", "news search",
}

// defaultEstablished is the larger exclusion list used by the emergence
// view: vocabulary already so common that its presence is never an early
// signal. Single words and phrases both appear here.
var defaultEstablished = []string{
	// ML staples
	"machine learning", "deep learning", "neural network", "neural networks",
	"artificial intelligence", "large language model", "large language models",
	"language model", "language models", "reinforcement learning",
	"computer vision", "natural language processing", "data science",
	"training data", "open source", "data set", "datasets",
	"transformer", "transformers", "embedding", "embeddings",
	"fine tuning", "fine-tuning", "inference", "benchmark", "benchmarks",
	// tech staples
	"cloud computing", "web development", "operating system", "open ai",
	"software engineering", "programming language", "source code",
	"user interface", "user experience", "api", "sdk", "github", "python",
	"javascript", "kubernetes", "docker", "database", "frontend", "backend",
	// business staples
	"startup", "startups", "venture capital", "business model",
	"product market fit", "go to market", "growth rate", "market size",
	"customer acquisition", "enterprise software", "saas",
}
