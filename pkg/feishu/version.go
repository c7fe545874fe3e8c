package feishu

// Version is the release version of the extractor.
const Version = "0.1.0"
